package catalogrepofake

import (
	"context"
	"sort"
	"sync"

	"github.com/openmusic/openmusic-api/catalog"
	"github.com/openmusic/openmusic-api/internal/utils"
)

var _ catalog.Repo = (*FakeCatalogRepo)(nil)

type FakeCatalogRepo struct {
	albums map[string]*catalog.Album
	songs  map[string]*catalog.Song
	lock   sync.RWMutex
}

func NewFakeCatalogRepo() *FakeCatalogRepo {
	return &FakeCatalogRepo{
		albums: make(map[string]*catalog.Album),
		songs:  make(map[string]*catalog.Song),
	}
}

func (cr *FakeCatalogRepo) AddAlbum(_ context.Context, album *catalog.Album) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	stored := *album
	stored.Songs = nil
	cr.albums[album.ID] = &stored
	return nil
}

func (cr *FakeCatalogRepo) GetAlbum(_ context.Context, id string) (*catalog.Album, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	a, ok := cr.albums[id]
	if !ok {
		return nil, catalog.ErrAlbumNotFound
	}
	album := *a
	album.Songs = []catalog.SongSummary{}
	for _, s := range cr.songs {
		if utils.Value(s.AlbumID) == id {
			album.Songs = append(album.Songs, summary(s))
		}
	}
	sortSummaries(album.Songs)
	return &album, nil
}

func (cr *FakeCatalogRepo) UpdateAlbum(_ context.Context, album *catalog.Album) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	if _, ok := cr.albums[album.ID]; !ok {
		return catalog.ErrAlbumNotFound
	}
	stored := *album
	cr.albums[album.ID] = &stored
	return nil
}

func (cr *FakeCatalogRepo) DeleteAlbum(_ context.Context, id string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	if _, ok := cr.albums[id]; !ok {
		return catalog.ErrAlbumNotFound
	}
	delete(cr.albums, id)
	for _, s := range cr.songs {
		if utils.Value(s.AlbumID) == id {
			s.AlbumID = nil
		}
	}
	return nil
}

func (cr *FakeCatalogRepo) AddSong(_ context.Context, song *catalog.Song) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	if song.AlbumID != nil {
		if _, ok := cr.albums[*song.AlbumID]; !ok {
			return catalog.ErrAlbumNotFound
		}
	}
	stored := *song
	cr.songs[song.ID] = &stored
	return nil
}

func (cr *FakeCatalogRepo) ListSongs(_ context.Context, filter catalog.SongFilter) ([]catalog.SongSummary, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	songs := make([]catalog.SongSummary, 0, len(cr.songs))
	for _, s := range cr.songs {
		if filter.Match(s) {
			songs = append(songs, summary(s))
		}
	}
	sortSummaries(songs)
	return songs, nil
}

func (cr *FakeCatalogRepo) GetSong(_ context.Context, id string) (*catalog.Song, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	s, ok := cr.songs[id]
	if !ok {
		return nil, catalog.ErrSongNotFound
	}
	song := *s
	return &song, nil
}

func (cr *FakeCatalogRepo) UpdateSong(_ context.Context, song *catalog.Song) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	if _, ok := cr.songs[song.ID]; !ok {
		return catalog.ErrSongNotFound
	}
	if song.AlbumID != nil {
		if _, ok := cr.albums[*song.AlbumID]; !ok {
			return catalog.ErrAlbumNotFound
		}
	}
	stored := *song
	cr.songs[song.ID] = &stored
	return nil
}

func (cr *FakeCatalogRepo) DeleteSong(_ context.Context, id string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	if _, ok := cr.songs[id]; !ok {
		return catalog.ErrSongNotFound
	}
	delete(cr.songs, id)
	return nil
}

func summary(s *catalog.Song) catalog.SongSummary {
	return catalog.SongSummary{ID: s.ID, Title: s.Title, Performer: s.Performer}
}

func sortSummaries(songs []catalog.SongSummary) {
	sort.Slice(songs, func(i, j int) bool {
		return songs[i].Title < songs[j].Title
	})
}

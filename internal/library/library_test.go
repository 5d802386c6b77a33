package library_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mangaread/internal/errors"
	"mangaread/internal/library"
	"mangaread/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAssets(t *testing.T, manga types.Manga, pageImages int) string {
	t.Helper()
	dir := t.TempDir()

	data, err := json.Marshal(manga)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manga.json"), data, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("cover bytes"), 0644))

	imagesDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	for i := 0; i < pageImages; i++ {
		name := filepath.Join(imagesDir, fmt.Sprintf("%d.jpg", i))
		require.NoError(t, os.WriteFile(name, []byte(fmt.Sprintf("page %d", i)), 0644))
	}
	return dir
}

func testManga(pages int) types.Manga {
	return types.Manga{
		ID:           7,
		EnglishName:  "Example Manga",
		JapaneseName: "例のマンガ",
		Tags:         []string{"action", "comedy"},
		Artists:      []string{"someone"},
		Pages:        pages,
		Uploaded:     "2023-04-01",
	}
}

func TestOpenAndInfo(t *testing.T) {
	dir := writeAssets(t, testManga(10), 10)

	lib, err := library.Open(dir)
	require.NoError(t, err)
	defer lib.Close()

	manga, err := lib.Info()
	require.NoError(t, err)
	assert.Equal(t, "Example Manga", manga.EnglishName)
	assert.Equal(t, 10, manga.Pages)
	assert.Equal(t, []byte("cover bytes"), manga.Cover)
}

func TestOpenFailures(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := library.Open(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := library.Open(t.TempDir())
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("malformed metadata", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "manga.json"), []byte("{not json"), 0644))
		_, err := library.Open(dir)
		assert.True(t, errors.IsDecodeFailure(err))
	})
}

func TestPage(t *testing.T) {
	dir := writeAssets(t, testManga(10), 9) // page 9 advertised but missing

	lib, err := library.Open(dir)
	require.NoError(t, err)
	defer lib.Close()

	t.Run("returns the raw image bytes", func(t *testing.T) {
		data, err := lib.Page(0)
		require.NoError(t, err)
		assert.Equal(t, []byte("page 0"), data)

		data, err = lib.Page(8)
		require.NoError(t, err)
		assert.Equal(t, []byte("page 8"), data)
	})

	t.Run("out of range is not found", func(t *testing.T) {
		_, err := lib.Page(-1)
		assert.True(t, errors.IsNotFound(err))

		_, err = lib.Page(10)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("missing image file is not found", func(t *testing.T) {
		_, err := lib.Page(9)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestWatchReloadsMetadata(t *testing.T) {
	dir := writeAssets(t, testManga(10), 10)

	lib, err := library.Open(dir)
	require.NoError(t, err)
	defer lib.Close()
	require.NoError(t, lib.Watch())

	updated := testManga(10)
	updated.EnglishName = "Renamed Manga"
	data, err := json.Marshal(updated)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manga.json"), data, 0644))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		manga, err := lib.Info()
		require.NoError(t, err)
		if manga.EnglishName == "Renamed Manga" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("metadata was not reloaded after manga.json changed")
}

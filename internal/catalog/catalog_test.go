package catalog

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/storefront/internal/logging"
	"github.com/JonMunkholm/storefront/internal/model"
)

const token = "test-token"

func newTestCatalog() *Catalog {
	return New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func app(name string, price float64) *model.Content {
	return &model.Content{
		Type:        model.TypeApplication,
		Name:        name,
		Description: "desc",
		Author:      "author",
		Rating:      3,
		Price:       price,
		Categories:  []string{"games"},
		Languages:   []string{"en"},
		Application: model.Application{FileSizeBytes: 1024},
	}
}

func TestImportRequiresToken(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	_, err := c.ImportCountries(ctx, "", []*model.Country{model.NewCountry("US", "UNITED STATES", "open")})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = c.ImportDevices(ctx, "", []*model.Device{model.NewDevice("iphone5", "IPhone 5", "Apple")})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = c.ImportContent(ctx, "", []*model.Content{app("A", 1)})
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Empty(t, c.Countries())
	assert.Empty(t, c.Devices())
	assert.Zero(t, c.ContentCount())
}

func TestValidateAccessToken(t *testing.T) {
	c := newTestCatalog()
	assert.False(t, c.ValidateAccessToken(""))
	assert.True(t, c.ValidateAccessToken("anything"))
}

func TestImportCountriesSkipsDuplicatesAndInvalid(t *testing.T) {
	c := newTestCatalog()

	res, err := c.ImportCountries(context.Background(), token, []*model.Country{
		model.NewCountry("US", "UNITED STATES", "open"),
		model.NewCountry("us", "Duplicate", "closed"),
		model.NewCountry("USA", "Bad code", "open"),
		nil,
		model.NewCountry("BO", "BOLIVIA, PLURINATIONAL STATE OF", "open"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 2, res.Invalid)
	assert.Equal(t, 3, res.Skipped())
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, KindCountry, res.Kind)

	us, ok := c.CountryByCode("Us")
	require.True(t, ok)
	assert.Equal(t, "UNITED STATES", us.Name)

	_, ok = c.CountryByCode("FR")
	assert.False(t, ok)
}

func TestImportIsIdempotent(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()
	devices := []*model.Device{
		model.NewDevice("iphone5", "IPhone 5", "Apple"),
		model.NewDevice("lumina800", "Lumina 800", "Nokia"),
	}

	_, err := c.ImportDevices(ctx, token, devices)
	require.NoError(t, err)
	res, err := c.ImportDevices(ctx, token, devices)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 2, res.Duplicates)
	assert.Len(t, c.Devices(), 2)

	d, ok := c.DeviceByID("IPHONE5")
	require.True(t, ok)
	assert.Equal(t, "Apple", d.Manufacturer)
}

func TestImportContentDedupesByValue(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	a := app("Angry Birds", 0.99)
	a.Categories = []string{"games", "arcade"}
	same := app("Angry Birds", 0.99)
	same.Categories = []string{"arcade", "games"}
	cheaper := app("Angry Birds", 0)

	res, err := c.ImportContent(ctx, token, []*model.Content{a, same, cheaper})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 2, c.ContentCount())

	invalid := app("Broken", 1)
	invalid.Rating = 7
	res, err = c.ImportContent(ctx, token, []*model.Content{invalid})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Invalid)
	assert.Equal(t, 2, c.ContentCount())
}

func TestBatchIDFromContext(t *testing.T) {
	c := newTestCatalog()
	ctx := logging.WithBatch(context.Background(), "file-batch")

	res, err := c.ImportDevices(ctx, token, []*model.Device{model.NewDevice("x", "X", "Y")})
	require.NoError(t, err)
	assert.Equal(t, "file-batch", res.BatchID)
}

func TestVariantProjections(t *testing.T) {
	c := newTestCatalog()

	ring := &model.Content{Type: model.TypeRingtone, Name: "Beep", Rating: 2, Ringtone: model.Ringtone{DurationSeconds: 3}}
	wall := &model.Content{Type: model.TypeWallpaper, Name: "Sunset", Rating: 4, Wallpaper: model.Wallpaper{PixelWidth: 1920, PixelHeight: 1080}}

	_, err := c.ImportContent(context.Background(), token, []*model.Content{app("A", 1), ring, wall, app("B", 2)})
	require.NoError(t, err)

	assert.Len(t, c.AllContent(), 4)
	assert.Len(t, c.Applications(), 2)
	assert.Equal(t, []*model.Content{ring}, c.Ringtones())
	assert.Equal(t, []*model.Content{wall}, c.Wallpapers())
}

func TestSearchContent(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	us := model.NewCountry("US", "UNITED STATES", "open")
	fr := model.NewCountry("FR", "FRANCE", "open")
	_, err := c.ImportCountries(ctx, token, []*model.Country{us, fr})
	require.NoError(t, err)

	racer := app("Ferrari Racer", 5)
	racer.Countries = []*model.Country{us}
	puzzle := app("Puzzle", 5)
	puzzle.Categories = []string{"puzzle"}
	puzzle.Countries = []*model.Country{fr}
	_, err = c.ImportContent(ctx, token, []*model.Content{racer, puzzle})
	require.NoError(t, err)

	// Defaults accept everything.
	assert.Len(t, c.SearchContent(model.NewCriteria()), 2)

	narrow := model.NewCriteria()
	narrow.ContentTypes = []model.ContentType{model.TypeWallpaper}
	narrow.MinRating = 5
	narrow.MaxPrice = 1
	narrow.Countries = []*model.Country{us}
	assert.Equal(t, []*model.Content{racer}, c.SearchContent(narrow))

	narrow.Countries = nil
	narrow.Text = "PUZ"
	assert.Equal(t, []*model.Content{puzzle}, c.SearchContent(narrow))

	narrow.Text = "nothing"
	assert.Empty(t, c.SearchContent(narrow))
}

func TestConcurrentReadsDuringImport(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = c.ImportContent(ctx, token, []*model.Content{app("A", 1), app("B", 2)})
		}()
		go func() {
			defer wg.Done()
			_ = c.SearchContent(model.NewCriteria())
			_ = c.ContentCount()
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, c.ContentCount())
}

func TestReimportStoredContentDuringSearch(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	a := app("A", 1)
	a.Categories = []string{"games", "arcade"}
	_, err := c.ImportContent(ctx, token, []*model.Content{a, app("B", 2)})
	require.NoError(t, err)

	stored := c.AllContent()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			res, err := c.ImportContent(ctx, token, stored)
			assert.NoError(t, err)
			assert.Equal(t, 2, res.Duplicates)
		}()
		go func() {
			defer wg.Done()
			assert.Len(t, c.SearchContent(model.NewCriteria()), 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, c.ContentCount())
}

func TestImportContentLeavesInputUntouched(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	item := app("A", 1)
	item.Categories = []string{"z", "a", "z"}
	item.Wallpaper = model.Wallpaper{PixelWidth: 10, PixelHeight: 10}

	_, err := c.ImportContent(ctx, "", []*model.Content{item})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, []string{"z", "a", "z"}, item.Categories)

	res, err := c.ImportContent(ctx, token, []*model.Content{item})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, []string{"z", "a", "z"}, item.Categories)
	assert.Equal(t, model.Wallpaper{PixelWidth: 10, PixelHeight: 10}, item.Wallpaper)

	stored := c.AllContent()
	require.Len(t, stored, 1)
	assert.NotSame(t, item, stored[0])
	assert.Equal(t, []string{"a", "z"}, stored[0].Categories)
	assert.Equal(t, model.Wallpaper{}, stored[0].Wallpaper)
}

package tryon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/storage"
)

func TestMannequinConvert(t *testing.T) {
	store := newFakeStore()
	conv := &fakeConverter{creds: true, url: "https://seedream.example.com/out.jpg"}
	svc, err := NewMannequinService(conv, store, newTestResolver(store), "try-on", nil)
	require.NoError(t, err)

	res, err := svc.Convert(context.Background(), "1")
	require.NoError(t, err)

	calls := store.uploads()
	require.Len(t, calls, 2)
	assert.Equal(t, "try-on/references", calls[0].Opts.Folder)
	assert.Equal(t, "try-on/mannequins", calls[1].Opts.Folder)
	assert.Equal(t, storage.KindURL, calls[1].Source.Kind())
	assert.Equal(t, "https://seedream.example.com/out.jpg", calls[1].Source.URL)
	assert.Equal(t, []string{res.SourceURL}, conv.seen)
	assert.Contains(t, res.Message, "Midnight Garden Gele")
}

func TestMannequinConvertFailures(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(store)

	noCreds, _ := NewMannequinService(&fakeConverter{}, store, r, "", nil)
	_, err := noCreds.Convert(context.Background(), "1")
	var cfgErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	svc, _ := NewMannequinService(&fakeConverter{creds: true}, store, r, "", nil)
	_, err = svc.Convert(context.Background(), "404")
	var unknown *domain.UnknownStyleError
	assert.True(t, errors.As(err, &unknown))

	_, err = svc.Convert(context.Background(), " ")
	var validation *domain.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Empty(t, store.uploads())
}

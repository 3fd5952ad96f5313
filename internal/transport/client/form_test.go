package client

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/domain/models"
)

func TestPostMultipart(t *testing.T) {
	var got struct {
		name, sizes, empty, visible  string
		fileName, fileBody, fileType string
		files                        int
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		got.name = r.FormValue("name")
		got.sizes = r.FormValue("sizes")
		got.empty = r.FormValue("clothingDetails")
		got.visible = r.FormValue("isVisible")

		files := r.MultipartForm.File["images"]
		got.files = len(files)
		if len(files) > 0 {
			got.fileName = files[0].Filename
			got.fileType = files[0].Header.Get("Content-Type")
			fh, err := files[0].Open()
			require.NoError(t, err)
			raw, _ := io.ReadAll(fh)
			got.fileBody = string(raw)
		}

		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "name": got.name})
	}))
	defer srv.Close()

	visible := true
	form := NewForm().
		Field("name", "Soap").
		Optional("description", "").
		Bool("isVisible", &visible).
		JSON("sizes", []map[string]any{{"size": "M", "price": 10}}).
		JSON("clothingDetails", []map[string]any(nil)).
		Files("images", []models.File{
			{Name: "a.png", ContentType: "image/png", Content: []byte("png-bytes")},
			{Name: "b.png", Content: []byte("more")},
		})

	res := PostMultipart[product](testCtx, New(srv.URL, nil, nil), "/api/products", form)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "Soap", got.name)
	assert.JSONEq(t, `[{"size":"M","price":10}]`, got.sizes)
	assert.Empty(t, got.empty)
	assert.Equal(t, "true", got.visible)
	assert.Equal(t, 2, got.files)
	assert.Equal(t, "a.png", got.fileName)
	assert.Equal(t, "image/png", got.fileType)
	assert.Equal(t, "png-bytes", got.fileBody)
}

func TestForm_EncodeError(t *testing.T) {
	_, _, err := NewForm().JSON("bad", map[string]any{"ch": make(chan int)}).Encode()
	assert.Error(t, err)
}

func TestForm_TypedNilIsEmpty(t *testing.T) {
	var missing *models.File

	body, contentType, err := NewForm().
		JSON("tags", []string(nil)).
		JSON("attrs", map[string]int(nil)).
		JSON("file", missing).
		JSON("list", []int{}).
		Encode()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))

	assert.Equal(t, "", req.FormValue("tags"))
	assert.Equal(t, "", req.FormValue("attrs"))
	assert.Equal(t, "", req.FormValue("file"))
	assert.Equal(t, "[]", req.FormValue("list"))
}

func TestForm_IntKeepsLargeIDs(t *testing.T) {
	body, contentType, err := NewForm().Int("brandId", 9007199254740993).Encode()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))

	assert.Equal(t, "9007199254740993", req.FormValue("brandId"))
}

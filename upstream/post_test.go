package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostQueryValues(t *testing.T) {
	isPurchase := true
	min, max := 10.0, 29.5
	q := PostQuery{
		BookISBN:   "9787562495000",
		IsPurchase: &isPurchase,
		OpenOnly:   true,
		PriceMin:   &min,
		PriceMax:   &max,
		PageIndex:  2,
		PageSize:   10,
		SortBy:     "price",
	}
	v := q.values()
	assert.Equal(t, "9787562495000", v.Get("book_isbn"))
	assert.Equal(t, "true", v.Get("is_purchase"))
	assert.Equal(t, "true", v.Get("open_only"))
	assert.Equal(t, "10", v.Get("price_min"))
	assert.Equal(t, "29.5", v.Get("price_max"))
	assert.Equal(t, "2", v.Get("page_index"))
	assert.Equal(t, "10", v.Get("page_size"))
	assert.Equal(t, "price", v.Get("sort_by"))
}

func TestPostQueryValuesOmitsZeroes(t *testing.T) {
	v := PostQuery{}.values()
	assert.Empty(t, v)
}

func TestCreatePostBody(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Write([]byte(`{"message":"created"}`))
	}))

	err := NewPostAPI(c).CreatePost(context.Background(), "tok", NewPost{
		BookISBN:   "9787562495000",
		Price:      12,
		IsPurchase: false,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"book_isbn":   "9787562495000",
		"price":       float64(12),
		"notes":       "",
		"is_purchase": false,
	}, body)
}

func TestUpdatePostPatchOmitsUnsetFields(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/posts/5", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Write([]byte(`{"message":"updated"}`))
	}))

	price := 15.5
	err := NewPostAPI(c).UpdatePost(context.Background(), "tok", 5, PostPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"price": 15.5}, body)
}

func TestRefreshPostQueryVerb(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/posts/5", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("refresh"))
		w.Write([]byte(`{"message":"refreshed"}`))
	}))

	require.NoError(t, NewPostAPI(c).RefreshPost(context.Background(), "tok", 5))
	assert.True(t, called)
}

func TestGetPosterContactQueryVerb(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/5", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("contact"))
		w.Write([]byte(`{"data":{"connection":"2521373229","connection_type":1}}`))
	}))

	contact, err := NewPostAPI(c).GetPosterContact(context.Background(), "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, "2521373229", contact.Connection)
	assert.Equal(t, 1, contact.ConnectionType)
}

func TestDeletePost(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/posts/5", r.URL.Path)
		w.Write([]byte(`{"message":"deleted"}`))
	}))

	require.NoError(t, NewPostAPI(c).DeletePost(context.Background(), "tok", 5))
}

func TestListUserPosts(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "9", q.Get("poster_user_id"))
		assert.Equal(t, "true", q.Get("open_only"))
		assert.Equal(t, "true", q.Get("is_purchase"))
		w.Write([]byte(`{"data":[{"id":1,"book_isbn":"9787562495000","is_purchase":true}]}`))
	}))

	posts, err := NewPostAPI(c).ListUserPosts(context.Background(), "tok", 9, true)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].IsPurchase)
}

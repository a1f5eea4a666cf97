// internal/tests/catalog_test.go
package tests

import (
	"net/http"
	"strings"
)

type itemJSON struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Stats  struct {
		Views     int64 `json:"views"`
		Likes     int64 `json:"likes"`
		Downloads int64 `json:"downloads"`
	} `json:"stats"`
}

type itemPage struct {
	Items []itemJSON `json:"items"`
	Total int64      `json:"total"`
}

// createItem publishes an item through the API.
func (s *APITestSuite) createItem(token, title string, attrs map[string]interface{}) itemJSON {
	w, env := s.do(http.MethodPost, "/v1/games/skyrim/mods", token, map[string]interface{}{
		"title":       title,
		"description": "# Hello\n\nSome **bold** text",
		"attributes":  attrs,
		"status":      "published",
	})
	requireCode(s.T(), w, http.StatusCreated)

	var data struct {
		Item itemJSON `json:"item"`
	}
	s.decode(env, &data)
	return data.Item
}

func (s *APITestSuite) listItems(query string) itemPage {
	w, env := s.do(http.MethodGet, "/v1/games/skyrim/mods"+query, "", nil)
	requireCode(s.T(), w, http.StatusOK)

	var page itemPage
	s.decode(env, &page)
	return page
}

func (s *APITestSuite) TestItemLifecycle() {
	s.catalog(s.admin())
	author := s.register("author")
	other := s.register("other")

	item := s.createItem(author, "Better Lanterns", map[string]interface{}{"loader": "skse"})
	s.Equal("better-lanterns", item.Slug)

	w, _ := s.do(http.MethodPost, "/v1/games/skyrim/mods", author, map[string]interface{}{"title": "Better Lanterns"})
	requireCode(s.T(), w, http.StatusConflict)

	s.createItem(author, "Vanilla Tweaks", map[string]interface{}{"loader": "vanilla"})

	page := s.listItems("")
	s.Equal(int64(2), page.Total)
	page = s.listItems("?loader=skse")
	s.Require().Len(page.Items, 1)
	s.Equal(item.ID, page.Items[0].ID)
	page = s.listItems("?q=tweaks")
	s.Require().Len(page.Items, 1)
	s.Equal("vanilla-tweaks", page.Items[0].Slug)

	// Detail renders markdown and counts one view per client
	for i := 0; i < 2; i++ {
		w, env := s.do(http.MethodGet, "/v1/games/skyrim/mods/better-lanterns", "", nil)
		requireCode(s.T(), w, http.StatusOK)
		var detail struct {
			DescriptionHTML string `json:"description_html"`
			Stats           struct {
				Views int64 `json:"views"`
			} `json:"stats"`
		}
		s.decode(env, &detail)
		s.Contains(detail.DescriptionHTML, "<strong>bold</strong>")
	}
	page = s.listItems("?loader=skse")
	s.Equal(int64(1), page.Items[0].Stats.Views)

	// Only the author may modify
	w, _ = s.do(http.MethodPatch, "/v1/games/skyrim/mods/better-lanterns", other, map[string]string{"title": "Mine now"})
	requireCode(s.T(), w, http.StatusForbidden)
	w, _ = s.do(http.MethodPatch, "/v1/games/skyrim/mods/better-lanterns", author, map[string]string{"title": "Brighter Lanterns"})
	requireCode(s.T(), w, http.StatusOK)

	// Hidden items drop out of the listing and are invisible to others
	w, _ = s.do(http.MethodPatch, "/v1/games/skyrim/mods/better-lanterns/status", author, map[string]string{"status": "hidden"})
	requireCode(s.T(), w, http.StatusOK)
	s.Equal(int64(1), s.listItems("").Total)
	w, _ = s.do(http.MethodGet, "/v1/games/skyrim/mods/better-lanterns", other, nil)
	requireCode(s.T(), w, http.StatusNotFound)
	w, _ = s.do(http.MethodGet, "/v1/games/skyrim/mods/better-lanterns", author, nil)
	requireCode(s.T(), w, http.StatusOK)

	w, env := s.do(http.MethodGet, "/v1/me/items", author, nil)
	requireCode(s.T(), w, http.StatusOK)
	var mine itemPage
	s.decode(env, &mine)
	s.Equal(int64(2), mine.Total)

	w, _ = s.do(http.MethodDelete, "/v1/games/skyrim/mods/better-lanterns", other, nil)
	requireCode(s.T(), w, http.StatusForbidden)
	w, _ = s.do(http.MethodDelete, "/v1/games/skyrim/mods/better-lanterns", author, nil)
	requireCode(s.T(), w, http.StatusOK)
	w, _ = s.do(http.MethodGet, "/v1/games/skyrim/mods/better-lanterns", author, nil)
	requireCode(s.T(), w, http.StatusNotFound)
}

func (s *APITestSuite) TestUnknownCatalogPaths() {
	s.catalog(s.admin())

	w, env := s.do(http.MethodGet, "/v1/games/oblivion/mods", "", nil)
	requireCode(s.T(), w, http.StatusNotFound)
	s.Equal("NOT_FOUND", env.Error.Code)

	w, _ = s.do(http.MethodGet, "/v1/games/skyrim/textures", "", nil)
	requireCode(s.T(), w, http.StatusNotFound)

	w, _ = s.do(http.MethodGet, "/v1/items/not-a-uuid/files", "", nil)
	requireCode(s.T(), w, http.StatusBadRequest)
}

func (s *APITestSuite) TestVersionUploadAndDownload() {
	s.catalog(s.admin())
	author := s.register("author")
	other := s.register("other")
	item := s.createItem(author, "Better Lanterns", nil)
	filesPath := "/v1/items/" + item.ID + "/files"

	w, _ := s.upload(filesPath, author, "file", "lanterns.zip", "application/zip", []byte("zip-bytes"), nil)
	requireCode(s.T(), w, http.StatusBadRequest)

	w, _ = s.upload(filesPath+"?version=1.0.0", other, "file", "lanterns.zip", "application/zip", []byte("zip-bytes"), nil)
	requireCode(s.T(), w, http.StatusForbidden)

	w, _ = s.upload(filesPath+"?version=1.0.0", author, "wrong", "lanterns.zip", "application/zip", []byte("zip-bytes"), nil)
	requireCode(s.T(), w, http.StatusBadRequest)

	w, _ = s.upload(filesPath+"?version=../1.0.0", author, "file", "lanterns.zip", "application/zip", []byte("zip-bytes"), nil)
	requireCode(s.T(), w, http.StatusBadRequest)
	s.Zero(s.store.Len())

	w, _ = s.upload(filesPath+"?version=1.0.0", author, "file", "huge.zip", "application/zip", []byte(strings.Repeat("x", 2<<20)), nil)
	requireCode(s.T(), w, http.StatusRequestEntityTooLarge)

	w, env := s.upload(filesPath+"?version=1.0.0&changelog=first", author, "file", "lanterns.zip", "application/zip", []byte("zip-bytes"),
		map[string]string{"game_version": "1.6"})
	requireCode(s.T(), w, http.StatusCreated)

	var uploaded struct {
		File struct {
			ID            string                 `json:"id"`
			VersionNumber string                 `json:"version_number"`
			Data          map[string]interface{} `json:"data"`
		} `json:"file"`
	}
	s.decode(env, &uploaded)
	s.Equal("1.0.0", uploaded.File.VersionNumber)
	s.Equal("1.6", uploaded.File.Data["game_version"])
	s.Equal("lanterns.zip", uploaded.File.Data["filename"])

	stored, ok := s.store.Get("items/" + item.ID + "/1.0.0/lanterns.zip")
	s.Require().True(ok)
	s.Equal("zip-bytes", string(stored))

	w, env = s.do(http.MethodGet, filesPath, "", nil)
	requireCode(s.T(), w, http.StatusOK)
	var versions struct {
		Items []map[string]interface{} `json:"items"`
		Total int64                    `json:"total"`
	}
	s.decode(env, &versions)
	s.Len(versions.Items, 1)
	s.Equal(int64(1), versions.Total)
	s.Equal("1", w.Header().Get("X-Total-Count"))

	downloadPath := "/v1/files/" + uploaded.File.ID + "/download"
	w, env = s.do(http.MethodGet, downloadPath, "", nil)
	requireCode(s.T(), w, http.StatusOK)
	var link struct {
		URL string `json:"url"`
	}
	s.decode(env, &link)
	s.Contains(link.URL, "lanterns.zip")

	w, _ = s.do(http.MethodGet, downloadPath+"?redirect=true", "", nil)
	requireCode(s.T(), w, http.StatusFound)
	s.Contains(w.Header().Get("Location"), "lanterns.zip")

	page := s.listItems("")
	s.Require().Len(page.Items, 1)
	s.Equal(int64(2), page.Items[0].Stats.Downloads)

	w, _ = s.do(http.MethodDelete, "/v1/files/"+uploaded.File.ID, other, nil)
	requireCode(s.T(), w, http.StatusForbidden)
	w, _ = s.do(http.MethodDelete, "/v1/files/"+uploaded.File.ID, author, nil)
	requireCode(s.T(), w, http.StatusNoContent)
	s.Zero(s.store.Len())
}

func (s *APITestSuite) TestGalleryUpload() {
	s.catalog(s.admin())
	author := s.register("author")
	item := s.createItem(author, "Better Lanterns", nil)
	galleryPath := "/v1/items/" + item.ID + "/gallery"

	png := []byte("\x89PNG\r\n\x1a\n0000")
	w, _ := s.upload(galleryPath, author, "file", "shot.png", "image/png", png, nil)
	requireCode(s.T(), w, http.StatusCreated)
	w, _ = s.upload(galleryPath, author, "file", "notes.txt", "text/plain", []byte("plain text"), nil)
	requireCode(s.T(), w, http.StatusBadRequest)

	w, env := s.do(http.MethodGet, galleryPath, "", nil)
	requireCode(s.T(), w, http.StatusOK)
	var images struct {
		Items []struct {
			ID        string `json:"id"`
			IsPrimary bool   `json:"is_primary"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	s.decode(env, &images)
	s.Require().Len(images.Items, 1)
	s.Equal(int64(1), images.Total)
	s.True(images.Items[0].IsPrimary, "first image becomes primary")
}

func (s *APITestSuite) TestGamesListIsPaginated() {
	s.catalog(s.admin())

	w, env := s.do(http.MethodGet, "/v1/games?limit=5", "", nil)
	requireCode(s.T(), w, http.StatusOK)
	var games struct {
		Items []struct {
			Slug string `json:"slug"`
		} `json:"items"`
		Total int64 `json:"total"`
		Limit int   `json:"limit"`
	}
	s.decode(env, &games)
	s.Require().Len(games.Items, 1)
	s.Equal("skyrim", games.Items[0].Slug)
	s.Equal(int64(1), games.Total)
	s.Equal(5, games.Limit)
}

func (s *APITestSuite) TestDraftItemFilesAreHidden() {
	s.catalog(s.admin())
	author := s.register("author")
	other := s.register("other")

	w, env := s.do(http.MethodPost, "/v1/games/skyrim/mods", author, map[string]interface{}{
		"title":  "Secret Lanterns",
		"status": "draft",
	})
	requireCode(s.T(), w, http.StatusCreated)
	var created struct {
		Item itemJSON `json:"item"`
	}
	s.decode(env, &created)
	s.Require().Equal("draft", created.Item.Status)
	filesPath := "/v1/items/" + created.Item.ID + "/files"

	w, env = s.upload(filesPath+"?version=0.1", author, "file", "secret.zip", "application/zip", []byte("zip-bytes"), nil)
	requireCode(s.T(), w, http.StatusCreated)
	var uploaded struct {
		File struct {
			ID string `json:"id"`
		} `json:"file"`
	}
	s.decode(env, &uploaded)
	downloadPath := "/v1/files/" + uploaded.File.ID + "/download"

	for _, token := range []string{"", other} {
		w, _ = s.do(http.MethodGet, filesPath, token, nil)
		requireCode(s.T(), w, http.StatusNotFound)
		w, _ = s.do(http.MethodGet, "/v1/items/"+created.Item.ID+"/gallery", token, nil)
		requireCode(s.T(), w, http.StatusNotFound)
		w, _ = s.do(http.MethodGet, downloadPath, token, nil)
		requireCode(s.T(), w, http.StatusNotFound)
	}

	w, _ = s.do(http.MethodGet, filesPath, author, nil)
	requireCode(s.T(), w, http.StatusOK)
	w, _ = s.do(http.MethodGet, downloadPath, author, nil)
	requireCode(s.T(), w, http.StatusOK)
}

func (s *APITestSuite) TestLikesAndFavorites() {
	s.catalog(s.admin())
	author := s.register("author")
	fan := s.register("fan")
	item := s.createItem(author, "Better Lanterns", nil)
	likePath := "/v1/items/" + item.ID + "/like"

	for i := 0; i < 2; i++ {
		w, env := s.do(http.MethodPost, likePath, fan, nil)
		requireCode(s.T(), w, http.StatusOK)
		var state struct {
			IsLiked bool  `json:"is_liked"`
			Likes   int64 `json:"likes"`
		}
		s.decode(env, &state)
		s.True(state.IsLiked)
		s.Equal(int64(1), state.Likes, "liking twice counts once")
	}

	w, env := s.do(http.MethodGet, "/v1/notifications?unread=true", author, nil)
	requireCode(s.T(), w, http.StatusOK)
	var notes struct {
		Items []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	s.decode(env, &notes)
	s.Require().Equal(int64(1), notes.Total)
	s.Equal("item_liked", notes.Items[0].Type)

	w, _ = s.do(http.MethodPut, "/v1/notifications/"+notes.Items[0].ID+"/read", author, nil)
	requireCode(s.T(), w, http.StatusOK)
	w, _ = s.do(http.MethodPut, "/v1/notifications/"+notes.Items[0].ID+"/read", fan, nil)
	requireCode(s.T(), w, http.StatusNotFound)

	w, _ = s.do(http.MethodDelete, likePath, fan, nil)
	requireCode(s.T(), w, http.StatusOK)
	s.Equal(int64(0), s.listItems("").Items[0].Stats.Likes)

	favPath := "/v1/items/" + item.ID + "/favorite"
	w, _ = s.do(http.MethodPost, favPath, fan, nil)
	requireCode(s.T(), w, http.StatusOK)

	w, env = s.do(http.MethodGet, "/v1/me/favorites", fan, nil)
	requireCode(s.T(), w, http.StatusOK)
	var favs itemPage
	s.decode(env, &favs)
	s.Equal(int64(1), favs.Total)

	w, _ = s.do(http.MethodDelete, favPath, fan, nil)
	requireCode(s.T(), w, http.StatusNoContent)
}

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", Timeout: 5 * time.Second}, nil)
}

func TestNewClient_TrimsBaseURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://api.example.com/"}, nil)
	assert.Equal(t, "https://api.example.com", client.BaseURL())
	assert.Equal(t, 30*time.Second, client.client.Timeout)
}

func TestListPackages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/packages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"_id":"p1","name":"Umrah Deluxe","destinations":[{"location":"Mekka","roomTypes":{"doubleRoom":{"available":true,"quantity":2,"price":1200}}}]}]`)
	})

	packages, err := client.ListPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, "p1", packages[0].ID)
	assert.Equal(t, "Vanaf €1200", packages[0].PriceLabel())
}

func TestListServices_NullBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	services, err := client.ListServices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, services)
	assert.Empty(t, services)
}

func TestGetPackage_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/packages/a b", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	pkg, err := client.GetPackage(context.Background(), "a b")
	assert.Nil(t, pkg)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestServerErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"Message field", `{"message":"Kamer is volgeboekt"}`, "Kamer is volgeboekt"},
		{"Error field", `{"error":"invalid payload"}`, "invalid payload"},
		{"No JSON", `oops`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.SubmitBookingRequest(context.Background(), models.BookingRequest{PackageID: "p1"})
			require.Error(t, err)
			assert.Equal(t, tt.message, ServerMessage(err))

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/login", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req LoginRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "admin@guide2umrah.be", req.Email)
			assert.Equal(t, "secret", req.Password)

			_, _ = io.WriteString(w, `{"token":"backend-token"}`)
		})

		token, err := client.Login(context.Background(), "admin@guide2umrah.be", "secret")
		require.NoError(t, err)
		assert.Equal(t, "backend-token", token)
	})

	t.Run("Rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
		})

		_, err := client.Login(context.Background(), "a@b.c", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", ServerMessage(err))
	})

	t.Run("Missing token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})

		_, err := client.Login(context.Background(), "a@b.c", "pw")
		assert.Error(t, err)
	})
}

func TestGetBackgroundImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/background-image/umrah":
			_, _ = io.WriteString(w, `{"success":true,"data":{"pageName":"umrah","imageUrl":"https://cdn.example/umrah.jpg"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	img, err := client.GetBackgroundImage(context.Background(), "umrah")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/umrah.jpg", img.ImageURL)

	_, err = client.GetBackgroundImage(context.Background(), "contact")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUploadBackgroundImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "home", r.FormValue("pageName"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "hero.jpg", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte("jpeg-bytes"), data)

		_, _ = io.WriteString(w, `{"success":true,"data":{"pageName":"home","imageUrl":"https://cdn.example/new.jpg"}}`)
	})

	img, err := client.UploadBackgroundImage(context.Background(), "admin-token", "home", "hero.jpg", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/new.jpg", img.ImageURL)
}

func TestCreatePackage_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Umrah Ramadan", r.FormValue("name"))
		assert.Len(t, r.MultipartForm.File["destinations[0][photos]"], 2)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"new-id","name":"Umrah Ramadan"}`)
	})

	form := NewForm().
		AddField("name", "Umrah Ramadan").
		AddFile("destinations[0][photos]", "a.jpg", "image/jpeg", []byte("a")).
		AddFile("destinations[0][photos]", "b.jpg", "", []byte("b"))

	assert.Equal(t, 2, form.FileCount("destinations[0][photos]"))
	value, ok := form.FieldValue("name")
	assert.True(t, ok)
	assert.Equal(t, "Umrah Ramadan", value)

	pkg, err := client.CreatePackage(context.Background(), "admin-token", form)
	require.NoError(t, err)
	assert.Equal(t, "new-id", pkg.ID)
}

func TestDeleteService(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/services/s1", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteService(context.Background(), "admin-token", "s1"))
	assert.True(t, called)
}

func TestSubmitContact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contact", r.URL.Path)
		var msg models.ContactMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "Yusuf", msg.Name)
		_, _ = io.WriteString(w, `{"success":true,"message":"Bedankt"}`)
	})

	resp, err := client.SubmitContact(context.Background(), models.ContactMessage{Name: "Yusuf", Email: "y@example.com", Message: "Hallo"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Bedankt", resp.Message)
}

func TestContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListPackages(ctx)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

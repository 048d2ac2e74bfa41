package marketapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestListAuctions_MalformedElementsKeepListingSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/auctions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a1","title":"Watch","startingPrice":100}, "garbage", {"id":"a2"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	records, err := client.ListAuctions(context.Background())

	check.Nil(t, err)
	check.Equal(t, 3, len(records))
	check.Equal(t, "a1", records[0].ID)
	check.Equal(t, "", records[1].ID) // malformed element became the zero record
	check.Equal(t, "a2", records[2].ID)
}

func TestListAuctions_NonArrayBodyIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`Service warming up`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.ListAuctions(context.Background())
	check.NotNil(t, err)
}

func TestDoRequest_EmbedsFailingStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auction not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.GetAuction(context.Background(), "missing")

	var terr *TransportError
	check.True(t, errors.As(err, &terr))
	check.Equal(t, http.StatusNotFound, terr.Status)
}

func TestGetAuction_MalformedBodySubstitutesDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	rec, err := client.GetAuction(context.Background(), "a1")

	check.Nil(t, err)
	check.Equal(t, "", rec.ID)
}

func TestPlaceBid_SendsCanonicalAmountAsQueryParam(t *testing.T) {
	var gotPath, gotAmount string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAmount = r.URL.Query().Get("bidAmount")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Bid placed successfully"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	resp, err := client.PlaceBid(context.Background(), "a1", 150.25)

	check.Nil(t, err)
	check.Equal(t, "/auctions/a1/bid", gotPath)
	check.Equal(t, "150.25", gotAmount)
	check.Equal(t, "Bid placed successfully", resp.Message)
}

func TestPlaceBid_PlainTextBodyWrapsAsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`Bid accepted!`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	resp, err := client.PlaceBid(context.Background(), "a1", 150)

	check.Nil(t, err)
	check.Equal(t, "Bid accepted!", resp.Message)
}

func TestLogin_DecodesAuthResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/users/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Login successful","user":{"id":"u1","username":"alex"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	resp, err := client.Login(context.Background(), LoginRequest{Username: "alex", Password: "pw"})

	check.Nil(t, err)
	check.True(t, resp.Success)
	check.Equal(t, "Login successful", resp.Message)
	check.NotNil(t, resp.User)
	check.Equal(t, "alex", resp.User.Username)
}

func TestRequests_CarryRequestID(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.ListAuctions(context.Background())

	check.Nil(t, err)
	check.True(t, gotID != "")
}

package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shelfmate/internal/modules/catalog/domain"
	catalogout "shelfmate/internal/modules/catalog/port/out"
)

const kakaoSearchPath = "/v3/search/book"

type kakaoDocument struct {
	Title     string   `json:"title"`
	Contents  string   `json:"contents"`
	ISBN      string   `json:"isbn"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Thumbnail string   `json:"thumbnail"`
}

type kakaoResponse struct {
	Documents []kakaoDocument `json:"documents"`
}

// KakaoClient queries the Kakao book search REST API.
type KakaoClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewKakaoClient(baseURL, apiKey string, timeout time.Duration, client *http.Client) catalogout.Provider {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &KakaoClient{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (c *KakaoClient) Name() string {
	return "kakao"
}

func (c *KakaoClient) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	docs, err := c.query(ctx, "title", query, limit)
	if err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.book())
	}
	return books, nil
}

// LookupISBN resolves each ISBN separately; misses and per-item failures are skipped
// unless every request failed.
func (c *KakaoClient) LookupISBN(ctx context.Context, isbns []string) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(isbns))
	var failures []error
	for _, isbn := range isbns {
		docs, err := c.query(ctx, "isbn", isbn, 1)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if len(docs) == 0 {
			continue
		}
		book := docs[0].book()
		book.ISBN = isbn
		books = append(books, book)
	}
	if len(isbns) > 0 && len(failures) == len(isbns) {
		return nil, errors.Join(failures...)
	}
	return books, nil
}

func (c *KakaoClient) query(ctx context.Context, target, query string, size int) ([]kakaoDocument, error) {
	if c.apiKey == "" {
		return nil, errors.New("kakao api key is not configured")
	}
	params := url.Values{}
	params.Set("target", target)
	params.Set("query", query)
	params.Set("size", strconv.Itoa(size))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+kakaoSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build kakao request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kakao request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao returned %s", resp.Status)
	}
	var payload kakaoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode kakao response: %w", err)
	}
	return payload.Documents, nil
}

func (d kakaoDocument) book() domain.Book {
	return domain.Book{
		ISBN:      d.ISBN,
		Title:     d.Title,
		Authors:   d.Authors,
		Publisher: d.Publisher,
		Thumbnail: d.Thumbnail,
		Contents:  d.Contents,
	}.Normalized()
}

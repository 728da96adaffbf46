package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"evimeria/internal/domain/model"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// カタログAPIの読み取りクライアント。
// キャッシュ・リトライ・タイムアウトは持たない（呼び出し側の ctx で切る）。
type CatalogClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// DI
func NewCatalogClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*CatalogClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog base url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CatalogClient{baseURL: u, http: httpClient, logger: logger}, nil
}

// HTTPステータスが2xx以外
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog api: status %d: %s", e.Status, e.Body)
}

func (c *CatalogClient) ListProducts(ctx context.Context) []model.Product {
	return fetchList[model.Product](ctx, c, "/products", nil)
}

func (c *CatalogClient) ListFeaturedProducts(ctx context.Context) []model.Product {
	return fetchList[model.Product](ctx, c, "/products/featured", nil)
}

func (c *CatalogClient) SearchProducts(ctx context.Context, q string) []model.Product {
	return fetchList[model.Product](ctx, c, "/products/search", url.Values{"q": {q}})
}

func (c *CatalogClient) ListCategories(ctx context.Context) []model.Category {
	return fetchList[model.Category](ctx, c, "/categories", nil)
}

// subCategorySlug が空ならカテゴリ全体
func (c *CatalogClient) ListProductsByCategory(ctx context.Context, categorySlug string, subCategorySlug string) []model.Product {
	var q url.Values
	if subCategorySlug != "" {
		q = url.Values{"subcategory": {subCategorySlug}}
	}
	return fetchList[model.Product](ctx, c, "/categories/"+url.PathEscape(categorySlug)+"/products", q)
}

func (c *CatalogClient) ListSubCategories(ctx context.Context, categorySlug string) []model.SubCategory {
	return fetchList[model.SubCategory](ctx, c, "/categories/"+url.PathEscape(categorySlug)+"/subcategories", nil)
}

// GetProductBySlug だけはエラーを呼び出し側に返す（見つからない画面を出すため）。
func (c *CatalogClient) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	body, err := c.get(ctx, "/products/"+url.PathEscape(slug), nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			err = fmt.Errorf("%w: %s", ErrProductNotFound, slug)
		}
		c.logger.Error("failed to fetch product", zap.String("slug", slug), zap.Error(err))
		return model.Product{}, err
	}

	var p model.Product
	if err := json.Unmarshal(body, &p); err != nil {
		err = fmt.Errorf("decode product %s: %w", slug, err)
		c.logger.Error("failed to fetch product", zap.String("slug", slug), zap.Error(err))
		return model.Product{}, err
	}
	return p, nil
}

// 一覧系は失敗・形違いのとき空の slice を返してログだけ残す
func fetchList[T any](ctx context.Context, c *CatalogClient, path string, q url.Values) []T {
	body, err := c.get(ctx, path, q)
	if err != nil {
		c.logger.Warn("catalog list request failed", zap.String("path", path), zap.Error(err))
		return []T{}
	}

	items, err := decodeList[T](body)
	if err != nil {
		c.logger.Warn("catalog list response ignored", zap.String("path", path), zap.Error(err))
		return []T{}
	}
	return items
}

// 配列、または { count, results: [...] } を受け付ける
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := strings.TrimSpace(string(body))

	switch {
	case strings.HasPrefix(trimmed, "["):
		items := []T{}
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil

	case strings.HasPrefix(trimmed, "{"):
		var envelope struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(strings.TrimSpace(string(envelope.Results)), "[") {
			return nil, fmt.Errorf("%w: object without results array", ErrUnexpectedShape)
		}
		items := []T{}
		if err := json.Unmarshal(envelope.Results, &items); err != nil {
			return nil, err
		}
		return items, nil

	default:
		return nil, fmt.Errorf("%w: not json", ErrUnexpectedShape)
	}
}

func (c *CatalogClient) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

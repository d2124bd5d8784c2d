package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"warung/internal/fetch"
	"warung/internal/models"
)

// listSelect trims list responses to the columns the table renders.
const listSelect = "id,title,description,price,category"

// RemoteProductRepository is the ProductRepository implementation backed by
// a DummyJSON-compatible remote product service. All list reads go through
// a fetch.Fetcher, so a list request superseded by a newer one can never
// commit a stale result.
type RemoteProductRepository struct {
	baseURL string
	client  *http.Client

	listMu sync.Mutex
	list   *fetch.Fetcher[models.ProductList]

	// Categories are fetched once and kept for the life of the process;
	// the enumeration has no refresh trigger.
	catMu      sync.Mutex
	categories []string
}

// NewRemoteProductRepository creates a repository against baseURL, e.g.
// "https://dummyjson.com/products".
func NewRemoteProductRepository(baseURL string, client *http.Client) *RemoteProductRepository {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteProductRepository{
		baseURL: baseURL,
		client:  client,
	}
}

// listURL builds the list endpoint for a query. A search term targets
// /search and a category targets /category/{name}; the plain base serves
// the unfiltered list.
func (r *RemoteProductRepository) listURL(q ListQuery) string {
	endpoint := r.baseURL
	switch {
	case q.Search != "":
		endpoint += "/search"
	case q.Category != "" && q.Category != "all":
		endpoint += "/category/" + url.PathEscape(q.Category)
	}

	params := url.Values{}
	params.Set("select", listSelect)
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	return endpoint + "?" + params.Encode()
}

// List retargets the list fetcher and waits for the latest request to
// settle.
func (r *RemoteProductRepository) List(ctx context.Context, q ListQuery) (*models.ProductList, error) {
	r.listMu.Lock()
	if r.list == nil {
		r.list = fetch.New[models.ProductList](r.client, r.listURL(q))
	} else {
		r.list.SetURL(r.listURL(q))
	}
	f := r.list
	r.listMu.Unlock()

	st := f.Wait(ctx)
	if st.Err != nil {
		return nil, st.Err
	}
	return st.Data, nil
}

// Get retrieves a single product by id.
func (r *RemoteProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	err := r.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.baseURL, id), nil, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories returns the category enumeration, fetching it on first use.
func (r *RemoteProductRepository) Categories(ctx context.Context) ([]string, error) {
	r.catMu.Lock()
	defer r.catMu.Unlock()
	if r.categories != nil {
		return r.categories, nil
	}

	var categories []string
	if err := r.do(ctx, http.MethodGet, r.baseURL+"/categories", nil, &categories); err != nil {
		return nil, err
	}
	r.categories = categories
	return categories, nil
}

// Create POSTs a new record. The remote service assigns the id.
func (r *RemoteProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	var created models.Product
	if err := r.do(ctx, http.MethodPost, r.baseURL+"/add", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update PUTs the full record, keyed by its id.
func (r *RemoteProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	var updated models.Product
	url := fmt.Sprintf("%s/%d", r.baseURL, product.ID)
	if err := r.do(ctx, http.MethodPut, url, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record with the given id.
func (r *RemoteProductRepository) Delete(ctx context.Context, id int) error {
	return r.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.baseURL, id), nil, nil)
}

// do performs one request with a JSON body and decodes the JSON response
// into out when non-nil. Single attempt, no retry; a 404 maps to
// ErrNotFound and every other non-2xx status to a generic error.
func (r *RemoteProductRepository) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode < 200 || res.StatusCode > 299:
		return fmt.Errorf("%s %s: unexpected status %s", method, url, res.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, url, err)
	}
	return nil
}

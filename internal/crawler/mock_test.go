package crawler

import (
	"fmt"
	"strings"
	"time"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache  map[string][]byte
	setErr error
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// nextDataPage wraps a payload in the markup the site serves.
func nextDataPage(payload string) string {
	return `<!DOCTYPE html><html><head><title>Bostäder till salu</title></head><body>
<div id="__next"></div>
<script id="__NEXT_DATA__" type="application/json">` + payload + `</script>
</body></html>`
}

// apolloPayload builds a payload whose graph holds n listings behind a
// searchForSale root-query entry.
func apolloPayload(n int) string {
	var refs, entries []string
	for i := 1; i <= n; i++ {
		refs = append(refs, fmt.Sprintf(`{"__ref":"Listing:%d"}`, i))
		entries = append(entries, fmt.Sprintf(
			`"Listing:%d":{"__typename":"Listing","booliId":%d,"streetAddress":"Gatan %d","listPrice":{"__typename":"FormattedValue","raw":%d},"estimate":{"__ref":"Estimate:%d"},"url":"/annons/%d"},"Estimate:%d":{"price":{"raw":%d}}`,
			i, i, i, 2000000+i*1000, i, i, i, 2000000+i*3000))
	}
	return `{"props":{"pageProps":{"__APOLLO_STATE__":{` +
		`"ROOT_QUERY":{"__typename":"Query","user":null,"searchForSale({\"input\":{}})":{"__typename":"SearchResult","result":{"listings":[` +
		strings.Join(refs, ",") + `]}}},` +
		strings.Join(entries, ",") +
		`}}}}`
}

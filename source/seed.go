package source

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/jacentio/lattice/engine"
)

// DefaultPageSize matches the reference page size of the lattice clients.
const DefaultPageSize = 50

// Fallback enumerations used when generated rows need a language or state.
var (
	seedLanguages = []string{"English", "Spanish", "French", "German"}
	seedStates    = []string{"CA", "NY", "TX", "FL", "IL"}
)

var (
	seedFirstNames = []string{"Ada", "Alan", "Grace", "Edsger", "Barbara", "Donald", "Frances", "John", "Margaret", "Dennis"}
	seedLastNames  = []string{"Lovelace", "Turing", "Hopper", "Dijkstra", "Liskov", "Knuth", "Allen", "Backus", "Hamilton", "Ritchie"}
	seedStreets    = []string{"Main St", "Oak Ave", "Analytical Way", "Mill Rd", "Church Ln"}
)

// Seed is a deterministic in-memory data source. The full dataset is
// materialized once from a fixed random seed and sliced per page, which is
// the documented reference/test-fixture behavior; production sources
// paginate at the source instead.
type Seed struct {
	rows     []engine.Row
	pageSize int
}

// NewSeed builds a source of total synthetic rows served pageSize at a time.
// The same seed always yields the same dataset. A pageSize <= 0 falls back
// to DefaultPageSize.
func NewSeed(total, pageSize int, seed int64) *Seed {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows := make([]engine.Row, 0, total)
	for i := 0; i < total; i++ {
		rows = append(rows, engine.Row{
			ID:          fmt.Sprintf("row#%04d", i),
			Name:        seedFirstNames[rng.Intn(len(seedFirstNames))] + " " + seedLastNames[rng.Intn(len(seedLastNames))],
			Address:     fmt.Sprintf("%d %s", 100+rng.Intn(9900), seedStreets[rng.Intn(len(seedStreets))]),
			Language:    seedLanguages[rng.Intn(len(seedLanguages))],
			Version:     fmt.Sprintf("%d.%d.%d", 1+rng.Intn(3), rng.Intn(10), rng.Intn(10)),
			State:       seedStates[rng.Intn(len(seedStates))],
			CreatedDate: base.AddDate(0, 0, i).Format("2006-01-02"),
		})
	}
	return &Seed{rows: rows, pageSize: pageSize}
}

// Len returns the total number of rows in the dataset.
func (s *Seed) Len() int { return len(s.rows) }

// Rows returns the full materialized dataset, for loading into other stores.
func (s *Seed) Rows() []engine.Row { return s.rows }

// FetchPage implements engine.DataSource. The cursor is the decimal offset
// of the next row; the zero cursor starts at offset 0.
func (s *Seed) FetchPage(ctx context.Context, cursor engine.Cursor) (engine.Page, error) {
	if err := ctx.Err(); err != nil {
		return engine.Page{}, err
	}

	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(string(cursor))
		if err != nil || n < 0 {
			return engine.Page{}, fmt.Errorf("%w: %q", engine.ErrBadCursor, cursor)
		}
		offset = n
	}
	if offset >= len(s.rows) {
		return engine.Page{}, nil
	}

	end := offset + s.pageSize
	if end > len(s.rows) {
		end = len(s.rows)
	}

	page := engine.Page{Rows: append([]engine.Row(nil), s.rows[offset:end]...)}
	if end < len(s.rows) {
		page.Next = engine.Cursor(strconv.Itoa(end))
	}
	return page, nil
}

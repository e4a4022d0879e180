package metrics

import (
	"net/http"
	"strings"

	"github.com/golang/glog"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	KeyPath      = tag.MustNewKey("path")
	KeyUserAgent = tag.MustNewKey("useragent")

	Requests = stats.Int64("requests", "", stats.UnitDimensionless)

	RequestsView = &view.View{
		Name:        "requests",
		Description: "Counter of requests that have been handled",
		TagKeys:     []tag.Key{KeyPath, KeyUserAgent},
		Measure:     Requests,
		Aggregation: view.Count(),
	}
)

// Wrapper counts requests served by an inner handler
type Wrapper struct {
	inner http.Handler
}

func NewWrapper(inner http.Handler) *Wrapper {
	return &Wrapper{inner: inner}
}

func (h *Wrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.inner.ServeHTTP(w, r)

	glog.V(1).Infof("Served path=%q useragent=%q", r.URL.Path, r.Header["User-Agent"])

	stats.RecordWithOptions(
		r.Context(),
		stats.WithTags(
			tag.Insert(KeyPath, r.URL.Path),
			tag.Insert(KeyUserAgent, strings.Join(r.Header["User-Agent"], "|")),
		),
		stats.WithMeasurements(Requests.M(1)))
}

package roundsource

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the source a base URL points at: an HTTP host for http(s)
// URLs, a directory otherwise.
func New(baseURL string, client *RateLimitedHTTPClient, log logrus.FieldLogger, opts ...HTTPSourceOption) (Source, error) {
	switch {
	case baseURL == "":
		return nil, fmt.Errorf("round source base url is required")
	case strings.HasPrefix(baseURL, "http://"), strings.HasPrefix(baseURL, "https://"):
		return NewHTTPSource(baseURL, client, log, opts...), nil
	default:
		return NewFileSource(strings.TrimPrefix(baseURL, "file://"), log), nil
	}
}

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchSink indexes entries into Index, one document per entry.
type ElasticsearchSink struct {
	ES      *elasticsearch.Client
	Index   string
	Timeout time.Duration
}

func (ElasticsearchSink) Name() string { return "elasticsearch" }

func (s ElasticsearchSink) Write(ctx context.Context, e Entry) error {
	if s.ES == nil || s.Index == "" {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	req := esapi.IndexRequest{Index: s.Index, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, s.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index response: %s", res.Status())
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/engagewise/engagewise/internal/httputil"
	"github.com/engagewise/engagewise/pkg/types"
)

// LoadCatalog fetches the study catalog from cfg.Source: an http(s) URL
// returning a JSON array of StudyRecord, or a local file path. Any failure
// (network error, non-2xx status, parse error) is reported as a warning on
// w and the built-in fallback catalog is returned, so callers never see
// "no data".
func LoadCatalog(ctx context.Context, client *http.Client, cfg types.CatalogConfig, w io.Writer) []types.StudyRecord {
	data, err := readSource(ctx, client, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: catalog load failed, using fallback catalog: %v\n", err)
		return FallbackCatalog()
	}

	var catalog []types.StudyRecord
	if err := json.Unmarshal(data, &catalog); err != nil {
		fmt.Fprintf(w, "warning: catalog parse failed, using fallback catalog: %v\n", err)
		return FallbackCatalog()
	}
	if len(catalog) == 0 {
		fmt.Fprintf(w, "warning: catalog is empty, using fallback catalog\n")
		return FallbackCatalog()
	}
	return catalog
}

func readSource(ctx context.Context, client *http.Client, cfg types.CatalogConfig) ([]byte, error) {
	src := cfg.Source
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FallbackCatalog returns the three fixed demo records substituted when
// the catalog source is unavailable.
func FallbackCatalog() []types.StudyRecord {
	return []types.StudyRecord{
		{
			Metadata: types.StudyMetadata{
				Title:        "Inclusion of home safety questionnaire in invitation",
				DiseaseArea1: "Public Health",
			},
			InterventionDetails: []types.Intervention{{
				Name:        "Inclusion of home safety questionnaire in invitation",
				Description: "Randomisation to receive an invitation with a 16-page safety questionnaire",
			}},
			Outcomes: &types.Outcomes{
				Primary:   []types.Outcome{{Name: "Recruitment Rate", Result: "Improved by 30%"}},
				Secondary: []types.Outcome{{Name: "Response Rate", Result: "Increased significantly"}},
			},
		},
		{
			Metadata: types.StudyMetadata{
				Title:        "Video information intervention",
				DiseaseArea1: "Public Health",
			},
			InterventionDetails: []types.Intervention{{
				Name:        "Patient information video",
				Description: "A 10-minute professionally produced video describing the study",
			}},
			Outcomes: &types.Outcomes{
				Primary: []types.Outcome{{Name: "Willingness to participate", Result: "61.9% vs 35.4% control"}},
			},
		},
		{
			Metadata: types.StudyMetadata{
				Title:        "Telephone reminders for non-responders",
				DiseaseArea1: "Public Health",
			},
			InterventionDetails: []types.Intervention{{
				Name:        "Telephone reminder to nonresponders",
				Description: "Follow-up calls to those who didn't respond to initial invitation",
			}},
			Outcomes: &types.Outcomes{
				Primary: []types.Outcome{{Name: "Recruitment rate", Result: "12.1% vs 4.5% control"}},
			},
		},
	}
}

package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/genai"

	"github.com/pathfinder-ai/pathfinder/internal/model"
)

const maxNewsItems = 5

// Hosts of search redirects rather than publishers.
var redirectHosts = []string{"google", "vertexaisearch", "gstatic", "corp"}

// TechNews searches recent news through Google Search grounding.
func (c *Client) TechNews(ctx context.Context, interest string) ([]model.NewsItem, error) {
	prompt, err := prompts.render(promptNews, map[string]any{"Interest": interest})
	if err != nil {
		return nil, err
	}

	resp, err := c.generate(ctx, "news", prompt, &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, err
	}

	items := newsFromResponse(resp)
	if len(items) == 0 {
		return nil, fmt.Errorf("news: %w", ErrEmptyResponse)
	}
	return items, nil
}

func newsFromResponse(resp *genai.GenerateContentResponse) []model.NewsItem {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	seen := make(map[string]bool)
	var items []model.NewsItem
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		if seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true

		items = append(items, model.NewsItem{
			Title:   chunk.Web.Title,
			Summary: "Read the full coverage at the source.",
			URL:     chunk.Web.URI,
			Source:  newsSource(chunk.Web.URI, chunk.Web.Title),
			Date:    "Recent",
		})
		if len(items) == maxNewsItems {
			break
		}
	}
	return items
}

// newsSource names the publisher. Redirect links fall back to the
// "Title - Publisher" suffix of the title.
func newsSource(rawURL, title string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "News Update"
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	for _, r := range redirectHosts {
		if strings.Contains(host, r) {
			if i := strings.LastIndex(title, "-"); i >= 0 && strings.TrimSpace(title[i+1:]) != "" {
				return strings.TrimSpace(title[i+1:])
			}
			return "Tech News"
		}
	}
	return host
}

// FallbackNews is a search link shown when no articles could be fetched.
func FallbackNews(interest string) []model.NewsItem {
	return []model.NewsItem{{
		Title:   "Latest News: " + interest,
		Summary: "Search for the latest updates on Google News.",
		URL:     "https://www.google.com/search?q=" + url.QueryEscape(interest+" news") + "&tbm=nws",
		Source:  "Google News",
		Date:    "Today",
	}}
}

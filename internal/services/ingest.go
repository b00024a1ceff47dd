package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsbrew/internal/db"
	"newsbrew/internal/models"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// How many ids from the top-stories listing we consider per run.
const topStoryLimit = 50

// Story is the upstream item payload.
type Story struct {
	ID          int64   `json:"id"`
	By          string  `json:"by"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Time        int64   `json:"time"`
	Score       int     `json:"score"`
	Descendants int     `json:"descendants"`
	Kids        []int64 `json:"kids"`
}

// Ingestor pulls top stories from the upstream news API into the posts table.
type Ingestor struct {
	baseURL   string
	client    *http.Client
	sanitizer *bluemonday.Policy
}

func NewIngestor(baseURL string) *Ingestor {
	if baseURL == "" {
		baseURL = "https://hacker-news.firebaseio.com"
	}
	return &Ingestor{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// TopStories fetches the current top-story id listing. A non-200 answer is
// an error: the whole run aborts on it.
func (i *Ingestor) TopStories(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := i.getJSON(ctx, i.baseURL+"/v0/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}
	return ids, nil
}

// Item fetches the detail record for one story id.
func (i *Ingestor) Item(ctx context.Context, id int64) (*Story, error) {
	var story Story
	if err := i.getJSON(ctx, fmt.Sprintf("%s/v0/item/%d.json", i.baseURL, id), &story); err != nil {
		return nil, fmt.Errorf("fetch item %d: %w", id, err)
	}
	return &story, nil
}

func (i *Ingestor) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// Run executes one ingestion pass and returns the number of newly inserted
// posts. The listing fetch failing aborts the run before any writes; a
// single item failing to fetch or decode is logged and skipped. Re-running
// against an unchanged listing inserts nothing.
func (i *Ingestor) Run(ctx context.Context) (int, error) {
	ids, err := i.TopStories(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) > topStoryLimit {
		ids = ids[:topStoryLimit]
	}

	count := 0
	for _, id := range ids {
		story, err := i.Item(ctx, id)
		if err != nil {
			logrus.WithError(err).Warnf("skipping story %d", id)
			continue
		}
		// Only story-type items that actually link somewhere.
		if story.Type != "story" || story.URL == "" {
			continue
		}

		var exists int64
		db.DB.Model(&models.Post{}).Where("id = ?", story.ID).Count(&exists)
		if exists > 0 {
			continue
		}

		kids, err := json.Marshal(story.Kids)
		if err != nil {
			logrus.WithError(err).Warnf("skipping story %d", id)
			continue
		}

		post := models.Post{
			ID:          story.ID,
			Author:      story.By,
			Title:       i.sanitizer.Sanitize(story.Title),
			URL:         story.URL,
			PostType:    story.Type,
			Time:        story.Time,
			Score:       story.Score,
			Descendants: story.Descendants,
			Kids:        datatypes.JSON(kids),
			Popularity:  0,
		}
		if err := db.DB.Create(&post).Error; err != nil {
			logrus.WithError(err).Warnf("failed to insert story %d", id)
			continue
		}
		count++
	}

	logrus.Infof("datestamp: %s, saved %d new stories", time.Now().Format(time.RFC3339), count)
	return count, nil
}

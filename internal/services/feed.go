package services

import (
	"math"

	"newsbrew/internal/db"
	"newsbrew/internal/models"
)

const (
	// Public feed and admin dashboard page size.
	FeedPerPage = 5
	// Cap for the JSON newsfeed, which is pure recency with no pagination.
	RecentLimit = 30
)

// FeedEntry is a post plus its current vote tallies.
type FeedEntry struct {
	Post     models.Post
	Likes    int64
	Dislikes int64
}

// FeedPage is one page of the ranked feed plus what the templates need for
// pagination controls.
type FeedPage struct {
	Entries    []FeedEntry
	Page       int
	TotalPages int
	// Window holds the page numbers to render, with 0 marking a gap.
	Window []int
}

type Feed struct{}

func NewFeed() *Feed {
	return &Feed{}
}

// Page returns the ranked public feed: popularity first, recency breaking
// ties.
func (f *Feed) Page(page int) (*FeedPage, error) {
	return f.paginate(page, "popularity DESC, time DESC")
}

// AdminPage returns posts most recent first for the moderation dashboard.
func (f *Feed) AdminPage(page int) (*FeedPage, error) {
	return f.paginate(page, "time DESC")
}

func (f *Feed) paginate(page int, order string) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := db.DB.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, err
	}
	totalPages := int(math.Ceil(float64(total) / float64(FeedPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	err := db.DB.Order(order).
		Limit(FeedPerPage).
		Offset((page - 1) * FeedPerPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	entries, err := fillVoteCounts(posts)
	if err != nil {
		return nil, err
	}

	return &FeedPage{
		Entries:    entries,
		Page:       page,
		TotalPages: totalPages,
		Window:     PageWindow(page, totalPages),
	}, nil
}

// Recent returns the newest posts by submission time, capped at limit.
func (f *Feed) Recent(limit int) ([]models.Post, error) {
	if limit <= 0 || limit > RecentLimit {
		limit = RecentLimit
	}
	var posts []models.Post
	err := db.DB.Order("time DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// fillVoteCounts batches the like/dislike tallies for a page of posts into
// two grouped counts instead of 2N queries.
func fillVoteCounts(posts []models.Post) ([]FeedEntry, error) {
	entries := make([]FeedEntry, len(posts))
	if len(posts) == 0 {
		return entries, nil
	}

	postIDs := make([]int64, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countRow struct {
		PostID int64
		Count  int64
	}

	likeMap := make(map[int64]int64)
	var likeRows []countRow
	err := db.DB.Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range likeRows {
		likeMap[r.PostID] = r.Count
	}

	dislikeMap := make(map[int64]int64)
	var dislikeRows []countRow
	err = db.DB.Model(&models.Dislike{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&dislikeRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range dislikeRows {
		dislikeMap[r.PostID] = r.Count
	}

	for i, p := range posts {
		entries[i] = FeedEntry{
			Post:     p,
			Likes:    likeMap[p.ID],
			Dislikes: dislikeMap[p.ID],
		}
	}
	return entries, nil
}

// PageWindow computes the page numbers worth linking: the first page, one
// page before through two pages after the current one, and the last page.
// A 0 marks an elided run.
func PageWindow(current, total int) []int {
	var pages []int
	last := 0
	for p := 1; p <= total; p++ {
		if p > 1 && (p < current-1 || p > current+2) && p <= total-1 {
			continue
		}
		if last != 0 && p != last+1 {
			pages = append(pages, 0)
		}
		pages = append(pages, p)
		last = p
	}
	return pages
}

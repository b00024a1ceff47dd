package services

import (
	"fmt"
	"testing"

	"newsbrew/internal/db"
	"newsbrew/internal/models"

	"github.com/stretchr/testify/require"
)

func seedPosts(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		err := db.DB.Create(&models.Post{
			ID:     int64(i),
			Author: "pg",
			Title:  fmt.Sprintf("Story %d", i),
			URL:    "https://example.com",
			Time:   int64(1700000000 + i),
		}).Error
		require.NoError(t, err)
	}
}

func TestFeedOrdering(t *testing.T) {
	db.OpenTest(t)
	seedPosts(t, 3)

	// post 2 most popular, posts 1 and 3 tied on popularity with 3 newer
	require.NoError(t, db.DB.Model(&models.Post{}).Where("id = ?", int64(2)).UpdateColumn("popularity", 5).Error)

	page, err := NewFeed().Page(1)
	require.NoError(t, err)
	require.Len(t, page.Entries, 3)
	require.EqualValues(t, 2, page.Entries[0].Post.ID)
	require.EqualValues(t, 3, page.Entries[1].Post.ID, "recency breaks the popularity tie")
	require.EqualValues(t, 1, page.Entries[2].Post.ID)
}

func TestFeedPagination(t *testing.T) {
	db.OpenTest(t)
	seedPosts(t, 12)

	feed := NewFeed()
	page, err := feed.Page(1)
	require.NoError(t, err)
	require.Len(t, page.Entries, FeedPerPage)
	require.Equal(t, 3, page.TotalPages)

	page, err = feed.Page(3)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
}

func TestFeedVoteCounts(t *testing.T) {
	db.OpenTest(t)
	seedPosts(t, 1)

	votes := NewVotes()
	_, err := votes.ToggleLike("user-a", 1)
	require.NoError(t, err)
	_, err = votes.ToggleLike("user-b", 1)
	require.NoError(t, err)
	_, err = votes.ToggleDislike("user-c", 1)
	require.NoError(t, err)

	page, err := NewFeed().Page(1)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.EqualValues(t, 2, page.Entries[0].Likes)
	require.EqualValues(t, 1, page.Entries[0].Dislikes)
}

func TestAdminPageOrdersByRecency(t *testing.T) {
	db.OpenTest(t)
	seedPosts(t, 3)

	// popularity must not matter here
	require.NoError(t, db.DB.Model(&models.Post{}).Where("id = ?", int64(1)).UpdateColumn("popularity", 99).Error)

	page, err := NewFeed().AdminPage(1)
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Entries[0].Post.ID)
	require.EqualValues(t, 2, page.Entries[1].Post.ID)
	require.EqualValues(t, 1, page.Entries[2].Post.ID)
}

func TestRecent(t *testing.T) {
	db.OpenTest(t)
	seedPosts(t, 40)

	posts, err := NewFeed().Recent(RecentLimit)
	require.NoError(t, err)
	require.Len(t, posts, 30)
	require.EqualValues(t, 40, posts[0].ID, "newest first")
	require.EqualValues(t, 11, posts[29].ID)
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{5, 10, []int{1, 0, 4, 5, 6, 7, 0, 10}},
		{1, 10, []int{1, 2, 3, 0, 10}},
		{10, 10, []int{1, 0, 9, 10}},
		{2, 5, []int{1, 2, 3, 4, 5}},
	}
	for _, tc := range cases {
		got := PageWindow(tc.current, tc.total)
		require.Equal(t, tc.want, got, "current=%d total=%d", tc.current, tc.total)
	}
}

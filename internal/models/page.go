package models

// PageView is everything the wish page needs for one render of a session.
type PageView struct {
	FriendName       string
	ProfileURL       string
	TotalClicks      int64
	JustCounted      bool
	Wish             string
	WishSource       string
	Messages         []Message
	RedirectInSecond int
}

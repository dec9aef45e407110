package enums

type SwipeAction string

const (
	SwipeActionLike    SwipeAction = "like"
	SwipeActionStar    SwipeAction = "star"
	SwipeActionDislike SwipeAction = "dislike"
)

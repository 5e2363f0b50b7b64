package statuses

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

const (
	ResultRed  = "red"
	ResultBlue = "blue"
	ResultDraw = "draw"
)

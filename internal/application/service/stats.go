package service

type ReceiptStats struct {
	StoreMs   float64
	ComputeMs float64
	Lines     int
}

type MutationStats struct {
	WaitMs   float64
	Attempts int
}

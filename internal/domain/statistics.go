package domain

// Statistics summarises completion times of done tasks. An average is empty
// when its bucket holds no tasks.
type Statistics struct {
	TotalDone       int64
	TotalLowDone    int64
	TotalMediumDone int64
	TotalHighDone   int64

	AverageDoneTime       string
	AverageLowDoneTime    string
	AverageMediumDoneTime string
	AverageHighDoneTime   string
}

package utils

import "time"

type TimeServiceInterface interface {
	WaitMilliseconds(milliseconds int64)
	GetNowUnix() int64
}

type TimeHelper struct {
}

func (t *TimeHelper) WaitMilliseconds(milliseconds int64) {
	time.Sleep(time.Millisecond * time.Duration(milliseconds))
}
func (t *TimeHelper) GetNowUnix() int64 {
	return time.Now().Unix()
}

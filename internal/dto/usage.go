package dto

import "time"

// UsageQuery month 为空时取当前月份
type UsageQuery struct {
	Month string `form:"month" binding:"omitempty,datetime=2006-01" msg:"error.month_invalid"`
}

// MonthStart 转换成 YYYY-MM-01
func (q UsageQuery) MonthStart(now time.Time) string {
	if q.Month == "" {
		return now.UTC().Format("2006-01") + "-01"
	}
	return q.Month + "-01"
}

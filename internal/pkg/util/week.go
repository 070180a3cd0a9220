package util

import (
	"fmt"
	"time"
)

// WeekIdentifier 计算 "YYYY-WW" 周标识。
// 沿用历史公式 ceil((dayOfYear + 元旦星期序号 + 1) / 7)，周日记 0。
// 注意这不是 ISO-8601 周号，库里已存的 week 字符串依赖该算法，不能换。
func WeekIdentifier(t time.Time) string {
	year := t.Year()
	dayOfYear := t.YearDay()
	firstWeekday := int(time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location()).Weekday())

	week := (dayOfYear + firstWeekday + 1 + 6) / 7

	return fmt.Sprintf("%d-%02d", year, week)
}

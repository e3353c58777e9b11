// Package calendar 将月份标识解析为日期序列，并给出每日的班次需求头数
package calendar

import (
	"fmt"
	"time"

	"github.com/paiban/paiban/pkg/model"
)

// weekdayDefault 工作日默认需求：早1 晚2 夜2
var weekdayDefault = model.HeadCount{P: 1, S: 2, M: 2}

// weekendDefault 周末/假日默认需求：早2 晚2 夜3
var weekendDefault = model.HeadCount{P: 2, S: 2, M: 3}

// Calendar 解析后的月份日历
type Calendar struct {
	year          int
	month         int
	numDays       int
	publicHoliday map[int]bool
	specialDates  map[int]model.HeadCount // day -> 头数，仅当该天在 special_dates 中时存在
	specialDay    map[int]bool
}

// New 根据 "YYYY-MM" 月份标识、公共假日列表与特殊日期表构建日历
//
// specialDates 的 key 为 "YYYY-MM-DD"，必须落在 month 所属月份内，否则返回 INVALID_INPUT 级别的 error。
func New(month string, publicHolidays []int, specialDates map[string]model.HeadCount) (*Calendar, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("月份格式无效: %q", month)
	}
	year, mon := t.Year(), int(t.Month())
	numDays := daysIn(year, mon)

	c := &Calendar{
		year:          year,
		month:         mon,
		numDays:       numDays,
		publicHoliday: make(map[int]bool, len(publicHolidays)),
		specialDates:  make(map[int]model.HeadCount, len(specialDates)),
		specialDay:    make(map[int]bool, len(specialDates)),
	}

	for _, d := range publicHolidays {
		if d < 1 || d > numDays {
			return nil, fmt.Errorf("公共假日 %d 超出当月范围 1..%d", d, numDays)
		}
		c.publicHoliday[d] = true
	}

	for dateStr, hc := range specialDates {
		dt, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("特殊日期格式无效: %q", dateStr)
		}
		if dt.Year() != year || int(dt.Month()) != mon {
			return nil, fmt.Errorf("特殊日期 %q 不在当月 %q 内", dateStr, month)
		}
		if hc.P < 0 || hc.S < 0 || hc.M < 0 {
			return nil, fmt.Errorf("特殊日期 %q 的头数不能为负", dateStr)
		}
		d := dt.Day()
		c.specialDates[d] = hc
		c.specialDay[d] = true
	}

	return c, nil
}

// daysIn 返回指定年月的天数
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Days 返回 1..N 的有序日期索引序列
func (c *Calendar) Days() []int {
	days := make([]int, c.numDays)
	for i := range days {
		days[i] = i + 1
	}
	return days
}

// NumDays 返回当月天数
func (c *Calendar) NumDays() int {
	return c.numDays
}

// Category 返回指定日期的类别
func (c *Calendar) Category(d int) model.DayCategory {
	if c.specialDay[d] {
		return model.Special
	}
	if c.isWeekend(d) || c.publicHoliday[d] {
		return model.WeekendHoliday
	}
	return model.Weekday
}

// isWeekend 判断该天是否落在周六或周日
func (c *Calendar) isWeekend(d int) bool {
	wd := time.Date(c.year, time.Month(c.month), d, 0, 0, 0, 0, time.UTC).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Required 返回指定日期、指定班次的需求头数
func (c *Calendar) Required(d int, s model.ShiftType) int {
	if hc, ok := c.specialDates[d]; ok {
		return hc.For(s)
	}
	if c.isWeekend(d) || c.publicHoliday[d] {
		return weekendDefault.For(s)
	}
	return weekdayDefault.For(s)
}

// Date 返回指定日期索引对应的 ISO 日期字符串 YYYY-MM-DD
func (c *Calendar) Date(d int) string {
	return time.Date(c.year, time.Month(c.month), d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// IsWeekday 判断该天是否为"普通工作日"：既非周末也非公共假日，也非特殊日期
func (c *Calendar) IsWeekday(d int) bool {
	return c.Category(d) == model.Weekday
}

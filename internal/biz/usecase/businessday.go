package usecase

import (
	"time"

	holiday_jp "github.com/holiday-jp/holiday_jp-go"
	"go.uber.org/zap"
)

// BusinessDayUsecase decides whether a date is a delivery day: a weekday
// that is not a Japanese public holiday.
type BusinessDayUsecase struct {
	loc    *time.Location
	logger *zap.Logger
}

// NewBusinessDayUsecase creates a new business day usecase
func NewBusinessDayUsecase(loc *time.Location, logger *zap.Logger) *BusinessDayUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusinessDayUsecase{loc: loc, logger: logger}
}

// IsBusinessDay reports whether date (evaluated in the configured timezone)
// is a weekday outside the public holiday table. Pure read; the only side
// effect is a log line explaining a skip.
func (uc *BusinessDayUsecase) IsBusinessDay(date time.Time) bool {
	d := date.In(uc.loc)
	day := d.Format("2006-01-02")

	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		uc.logger.Info("weekend, skipping delivery", zap.String("date", day))
		return false
	}

	if holiday_jp.IsHoliday(d) {
		name := ""
		if h, err := holiday_jp.HolidayName(d); err == nil {
			name = h
		}
		uc.logger.Info("public holiday, skipping delivery",
			zap.String("date", day), zap.String("holiday", name))
		return false
	}

	return true
}

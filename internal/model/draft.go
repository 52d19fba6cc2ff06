package model

import "time"

// Draft черновик бронирования в процессе выбора. В БД не сохраняется
type Draft struct {
	Service      string
	Professional string
	Date         *time.Time
	Time         *ClockTime
}

// NewDraft создаёт черновик с услугой и специалистом по умолчанию
func NewDraft(service, professional string) Draft {
	return Draft{Service: service, Professional: professional}
}

// Complete проверяет, что выбраны и дата, и время
func (d Draft) Complete() bool {
	return d.Date != nil && d.Time != nil
}

package parser

import "errors"

var (
	// ErrNoTable - на странице нет таблицы: расписание еще не опубликовано
	ErrNoTable = errors.New("schedule is not published yet")
	// ErrNoDate - в заголовке нет даты, а дата по умолчанию не передана
	ErrNoDate = errors.New("schedule date not found")
)

// IsNotYet сообщает, что расписание еще не опубликовано
func IsNotYet(err error) bool {
	return errors.Is(err, ErrNoTable)
}

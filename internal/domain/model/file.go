package model

import "fmt"

// FileRecord — строка таблицы files LMS с присоединённым username.
type FileRecord struct {
	// ID — идентификатор файла
	ID int64
	// TimeCreated — время создания (unix timestamp)
	TimeCreated int64
	// Filename — имя файла
	Filename string
	// Filesize — размер в байтах
	Filesize int64
	// UserID — владелец файла
	UserID int64
	// Username — имя пользователя; nil, если пользователь удалён
	Username *string
	// Component — подсистема-владелец (например, mod_forum)
	Component string
	// FileArea — область внутри компонента
	FileArea string
	// ItemID — уточняющий идентификатор внутри области
	ItemID int64
	// ContextID — контекст, к которому привязан файл
	ContextID int64
}

// UserAggregate — суммарный объём файлов одного пользователя.
// Группировка по files.userid.
type UserAggregate struct {
	// UserID — владелец файлов
	UserID int64
	// Username — имя пользователя; nil для удалённых учётных записей
	Username *string
	// FileCount — количество файлов
	FileCount int64
	// TotalSize — суммарный размер в байтах
	TotalSize int64
}

// AreaAggregate — суммарный объём файлов одной области хранения.
// Группировка по (component, filearea, contextid, contextlevel, instanceid, itemid).
type AreaAggregate struct {
	Component string
	FileArea  string
	ContextID int64
	ItemID    int64
	// ContextLevel — уровень контекста; 0, если контекст отсутствует в каталоге
	ContextLevel ContextLevel
	// ContextInstanceID — instanceid контекста; 0, если контекст отсутствует
	ContextInstanceID int64
	// FileCount — количество файлов в области
	FileCount int64
	// TotalSize — суммарный размер в байтах
	TotalSize int64
	// ContextLabel — человекочитаемое описание контекста (заполняется сервисом)
	ContextLabel ContextLabel
}

// Key возвращает синтетический идентификатор строки, уникальный
// в пределах одного отчёта: элементы ключа группировки через разделитель.
func (a *AreaAggregate) Key() string {
	return fmt.Sprintf("%s|%s|%d|%d|%d|%d",
		a.Component, a.FileArea, a.ContextID, a.ContextLevel, a.ContextInstanceID, a.ItemID)
}

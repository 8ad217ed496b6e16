package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ContextLevel — уровень контекста LMS.
type ContextLevel int

// Уровни контекста (значения совпадают с таблицей context LMS).
const (
	ContextLevelSystem   ContextLevel = 10
	ContextLevelUser     ContextLevel = 30
	ContextLevelCategory ContextLevel = 40
	ContextLevelCourse   ContextLevel = 50
	ContextLevelModule   ContextLevel = 70
	ContextLevelBlock    ContextLevel = 80
)

// String возвращает название уровня (используется как префикс имени контекста).
func (l ContextLevel) String() string {
	switch l {
	case ContextLevelSystem:
		return "System"
	case ContextLevelUser:
		return "User"
	case ContextLevelCategory:
		return "Category"
	case ContextLevelCourse:
		return "Course"
	case ContextLevelModule:
		return "Module"
	case ContextLevelBlock:
		return "Block"
	default:
		return "Level " + strconv.Itoa(int(l))
	}
}

// ContextRecord — строка каталога контекстов.
type ContextRecord struct {
	ID         int64
	Level      ContextLevel
	InstanceID int64
	// Path — путь от корня, например "/1/3/15"
	Path string
	// Depth — глубина (1 для системного контекста)
	Depth int
}

// ParentID возвращает id родительского контекста из Path.
// Второе значение false, если родителя нет или путь некорректен.
func (c *ContextRecord) ParentID() (int64, bool) {
	parts := strings.Split(strings.Trim(c.Path, "/"), "/")
	if len(parts) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil || id <= 0 || id == c.ID {
		return 0, false
	}
	return id, true
}

// ContextLabel — подпись контекста в отчёте по областям.
// Нулевое значение — пустая подпись.
type ContextLabel struct {
	InstanceID int64
	Name       string
	ParentName string
}

// IsEmpty сообщает, что подпись не заполнена.
func (l ContextLabel) IsEmpty() bool {
	return l.Name == "" && l.ParentName == "" && l.InstanceID == 0
}

// String возвращает подпись в текстовом виде: строка instance id,
// имя контекста и (если есть) имя родителя — каждое с новой строки.
func (l ContextLabel) String() string {
	if l.IsEmpty() {
		return ""
	}
	s := fmt.Sprintf("Instance ID %d\n%s", l.InstanceID, l.Name)
	if l.ParentName != "" {
		s += "\n" + l.ParentName
	}
	return s
}

// Пакет report — выбор отчёта по токену из запроса.
package report

// Kind — вид отчёта.
type Kind string

// Виды отчётов. KindMenu — отчёт не выбран, показывается только меню.
const (
	KindMenu      Kind = ""
	KindFiles     Kind = "files"
	KindUserFiles Kind = "userfiles"
	KindUsers     Kind = "users"
	KindAreas     Kind = "areas"
)

// DefaultLimit — фиксированное ограничение размера ранжированных отчётов.
const DefaultLimit = 100

// ParseKind сопоставляет токен виду отчёта.
// Неизвестный или пустой токен — KindMenu, не ошибка.
func ParseKind(token string) Kind {
	switch k := Kind(token); k {
	case KindFiles, KindUserFiles, KindUsers, KindAreas:
		return k
	default:
		return KindMenu
	}
}

// Limited сообщает, ограничен ли отчёт DefaultLimit строками.
// Список файлов пользователя не ограничивается.
func (k Kind) Limited() bool {
	switch k {
	case KindFiles, KindUsers, KindAreas:
		return true
	default:
		return false
	}
}

// MenuKinds — отчёты, доступные из меню страницы, в порядке отображения.
func MenuKinds() []Kind {
	return []Kind{KindFiles, KindUsers, KindAreas}
}

// Пакет rbac — роль пользователя страницы отчётов.
// Роль вычисляется из групп IdP, а при их отсутствии из realm-ролей токена.
package rbac

// Роли. Отчёты только читают данные, поэтому любая роль даёт просмотр.
const (
	RoleReadonly = "readonly"
	RoleAdmin    = "admin"
)

// rank — старшинство ролей; 0 — не роль.
func rank(role string) int {
	switch role {
	case RoleAdmin:
		return 2
	case RoleReadonly:
		return 1
	default:
		return 0
	}
}

// HighestRole возвращает старшую допустимую роль набора или "".
func HighestRole(roles []string) string {
	best := ""
	for _, r := range roles {
		if rank(r) > rank(best) {
			best = r
		}
	}
	return best
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	return rank(role) > 0
}

// CanViewReports сообщает, может ли роль открывать страницу отчётов.
func CanViewReports(role string) bool {
	return IsValidRole(role)
}

// Mapping — соответствие групп IdP ролям (FI_ROLE_*_GROUPS).
type Mapping struct {
	groups map[string]string
}

// NewMapping создаёт соответствие. Группа, указанная в обоих списках, даёт admin.
func NewMapping(adminGroups, readonlyGroups []string) Mapping {
	m := Mapping{groups: make(map[string]string, len(adminGroups)+len(readonlyGroups))}
	for _, g := range readonlyGroups {
		m.groups[g] = RoleReadonly
	}
	for _, g := range adminGroups {
		m.groups[g] = RoleAdmin
	}
	return m
}

// RoleFor возвращает роль по группам пользователя. Если ни одна группа
// не сопоставлена, используется старшая допустимая роль из realmRoles.
func (m Mapping) RoleFor(groups, realmRoles []string) string {
	mapped := make([]string, 0, len(groups))
	for _, g := range groups {
		if role, ok := m.groups[g]; ok {
			mapped = append(mapped, role)
		}
	}
	if role := HighestRole(mapped); role != "" {
		return role
	}
	return HighestRole(realmRoles)
}

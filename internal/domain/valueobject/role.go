package valueobject

// Role роль пользователя относительно конкретного заказа.
type Role string

const (
	RoleNone   Role = ""
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Roles перечисляет роли, для которых определены действия.
var Roles = []Role{RoleBuyer, RoleSeller}

func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// ListParam возвращает значение параметра role для GET /orders.
// Backend называет исполнителя worker.
func (r Role) ListParam() string {
	if r == RoleSeller {
		return "worker"
	}
	return string(r)
}

// ParseRole принимает как seller, так и worker.
func ParseRole(raw string) Role {
	switch raw {
	case "buyer":
		return RoleBuyer
	case "seller", "worker":
		return RoleSeller
	}
	return RoleNone
}

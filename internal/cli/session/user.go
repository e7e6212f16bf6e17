package session

// User — нормализованная запись пользователя на клиенте.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
}

// NormalizeUser приводит разнобой форм ответа к одной записи.
// Единственная точка нормализации на границе сессии; порядок приоритетов:
//   - вложенный объект "user" выигрывает у полей верхнего уровня;
//   - "id" выигрывает у "user_id";
//   - "full_name" выигрывает у "fullName", оба — у склейки first+last.
//
// Возвращает nil, если не удалось определить даже id.
func NormalizeUser(data map[string]any) *User {
	if data == nil {
		return nil
	}

	// источники в порядке приоритета
	sources := []map[string]any{}
	if nested, ok := data["user"].(map[string]any); ok {
		sources = append(sources, nested)
	}
	sources = append(sources, data)

	pickString := func(keys ...string) string {
		for _, src := range sources {
			for _, k := range keys {
				if v, ok := src[k].(string); ok && v != "" {
					return v
				}
			}
		}
		return ""
	}
	pickID := func() int64 {
		for _, src := range sources {
			for _, k := range []string{"id", "user_id"} {
				switch v := src[k].(type) {
				case float64:
					if v > 0 {
						return int64(v)
					}
				case int64:
					if v > 0 {
						return v
					}
				}
			}
		}
		return 0
	}

	u := &User{
		ID:        pickID(),
		Email:     pickString("email"),
		FirstName: pickString("first_name"),
		LastName:  pickString("last_name"),
		FullName:  pickString("full_name", "fullName"),
		Role:      pickString("role"),
	}
	if u.FullName == "" {
		switch {
		case u.FirstName != "" && u.LastName != "":
			u.FullName = u.FirstName + " " + u.LastName
		case u.FirstName != "":
			u.FullName = u.FirstName
		default:
			u.FullName = u.LastName
		}
	}
	if u.ID == 0 {
		return nil
	}
	return u
}

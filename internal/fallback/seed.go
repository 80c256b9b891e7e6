package fallback

import "github.com/cristianoliveira/pushdesk/internal/domain"

// seedMaxID is the largest identifier used by the seed fixture.
const seedMaxID = 5

// SeedClients returns the demonstration roster shown when no server is reachable.
func SeedClients() []domain.Client {
	return []domain.Client{
		{
			ID:        "1",
			Name:      "Алексей Иванов",
			Email:     "alexey.ivanov@email.com",
			Phone:     "+7 909 123-45-67",
			Company:   `ООО "Техносервис"`,
			Status:    domain.StatusActive,
			CreatedAt: "2024-01-15T10:30:00Z",
		},
		{
			ID:        "2",
			Name:      "Мария Петрова",
			Email:     "maria.petrova@email.com",
			Phone:     "+7 909 234-56-78",
			Company:   "ИП Петрова М.А.",
			Status:    domain.StatusActive,
			CreatedAt: "2024-01-16T14:20:00Z",
		},
		{
			ID:        "3",
			Name:      "Дмитрий Сидоров",
			Email:     "dmitry.sidorov@email.com",
			Phone:     "+7 909 345-67-89",
			Company:   `ЗАО "Инновации"`,
			Status:    domain.StatusInactive,
			CreatedAt: "2024-01-17T09:15:00Z",
		},
		{
			ID:        "4",
			Name:      "Елена Кузнецова",
			Email:     "elena.kuznetsova@email.com",
			Phone:     "+7 909 456-78-90",
			Company:   `ООО "Строй-Проект"`,
			Status:    domain.StatusActive,
			CreatedAt: "2024-01-18T16:45:00Z",
		},
		{
			ID:        "5",
			Name:      "Андрей Морозов",
			Email:     "andrey.morozov@email.com",
			Phone:     "+7 909 567-89-01",
			Company:   "ИП Морозов А.И.",
			Status:    domain.StatusPending,
			CreatedAt: "2024-01-19T11:30:00Z",
		},
	}
}

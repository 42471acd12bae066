package health

type Input struct{}

type Output struct {
	Body Response
}

// Response ServerTime нужен клиенту: порядок правок определяется только updated_at.
type Response struct {
	Status     string `json:"status" example:"OK"`
	Database   string `json:"database" example:"OK" doc:"Состояние подключения к Postgres"`
	ServerTime string `json:"server_time" example:"2024-05-20T10:00:00Z" doc:"Время сервера, ISO-8601 UTC"`
}

package models

// WelcomeEmail — сообщение очереди для приветственного письма новому пользователю.
type WelcomeEmail struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ResetEmail — сообщение очереди для письма восстановления пароля.
// Token подставляется в ссылку восстановления на стороне отправителя.
type ResetEmail struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ReturningEmail — сообщение очереди для письма вернувшемуся пользователю.
type ReturningEmail struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

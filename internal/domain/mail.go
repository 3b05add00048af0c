package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type NewOfficerMailData struct {
	Name     string `json:"name"`
	Badge    string `json:"badge"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TimeOffDecisionMailData struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	Decision string `json:"decision"`
}

type ResetPasswordMailData struct {
	Name       string `json:"name"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

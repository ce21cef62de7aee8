package contact

// FormInput is the public HTML form. Website is the honeypot field.
type FormInput struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Phone   string `form:"phone"`
	Message string `form:"message"`
	Website string `form:"website"`
}

type CreateMessageRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Message string `json:"message" validate:"required,max=600"`
	Website string `json:"website"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

package visionprovider

// ChatRequest запрос к chat-completions API.
type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

// Message одно сообщение диалога с мультимодальным содержимым.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart часть содержимого сообщения: текст либо изображение.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL ссылка на изображение, здесь всегда data-URL с base64.
type ImageURL struct {
	URL string `json:"url"`
}

// ChatResponse ответ chat-completions API.
type ChatResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice один вариант ответа модели.
type Choice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// APIError тело ошибки, возвращаемое API вместо результата.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

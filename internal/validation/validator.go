package validation

import (
	"regexp"
	"strings"

	"github.com/blog-publishing-api/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	maxTitleLength = 300
	maxTagLength   = 64
	maxTagsPerPost = 20
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is the list of problems found in one request body
type Errors []ValidationError

// Error joins all messages so the list can be returned as an error
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return strings.Join(msgs, "; ")
}

// OrNil returns nil for an empty list so callers can return it as an error
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// IsValidEmail reports whether email has a plausible address shape
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateRegister validates a registration request
func ValidateRegister(req *models.RegisterRequest) Errors {
	var errors Errors

	// Validate email
	if req.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !IsValidEmail(req.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: req.Email})
	}

	// Password is never echoed back
	if req.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	return errors
}

// ValidateLogin validates a login request
func ValidateLogin(req *models.LoginRequest) Errors {
	var errors Errors
	if req.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}
	return errors
}

// ValidateCreatePost validates a new post
func ValidateCreatePost(req *models.CreatePostRequest) Errors {
	var errors Errors

	errors = append(errors, validateTitle(req.Title)...)
	if strings.TrimSpace(req.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}
	errors = append(errors, validateTags(req.Tags)...)

	return errors
}

// ValidateUpdatePost validates the supplied fields of a partial update
func ValidateUpdatePost(req *models.UpdatePostRequest) Errors {
	var errors Errors

	if req.Title != nil {
		errors = append(errors, validateTitle(*req.Title)...)
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content cannot be empty"})
	}
	if req.Tags != nil {
		errors = append(errors, validateTags(*req.Tags)...)
	}

	return errors
}

// ValidateComment validates a new comment. author_email is unverified free text.
func ValidateComment(req *models.CreateCommentRequest) Errors {
	var errors Errors

	if strings.TrimSpace(req.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}
	if strings.TrimSpace(req.AuthorName) == "" {
		errors = append(errors, ValidationError{Field: "author_name", Message: "author_name is required"})
	}

	return errors
}

func validateTitle(title string) Errors {
	if strings.TrimSpace(title) == "" {
		return Errors{{Field: "title", Message: "title is required"}}
	}
	if len([]rune(title)) > maxTitleLength {
		return Errors{{Field: "title", Message: "title is too long"}}
	}
	return nil
}

func validateTags(tags []string) Errors {
	var errors Errors
	if len(tags) > maxTagsPerPost {
		errors = append(errors, ValidationError{Field: "tags", Message: "too many tags", Value: len(tags)})
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{Field: "tags", Message: "tag names cannot be empty"})
			break
		}
		if len([]rune(tag)) > maxTagLength {
			errors = append(errors, ValidationError{Field: "tags", Message: "tag name is too long", Value: tag})
			break
		}
	}
	return errors
}

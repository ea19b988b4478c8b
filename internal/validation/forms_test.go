package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name       string
		form       any
		wantFields map[string]string
	}{
		{
			name: "valid login",
			form: LoginForm{Username: "alice", Password: "secret1"},
		},
		{
			name: "empty login",
			form: LoginForm{},
			wantFields: map[string]string{
				"Username": "Username is required",
				"Password": "Password is required",
			},
		},
		{
			name: "short password",
			form: LoginForm{Username: "alice", Password: "123"},
			wantFields: map[string]string{
				"Password": "Password must be at least 6 characters long",
			},
		},
		{
			name: "register bad role",
			form: RegisterForm{Username: "bob", Password: "secret1", Role: "Root"},
			wantFields: map[string]string{
				"Role": "Role must be one of: User, Admin",
			},
		},
		{
			name: "valid register",
			form: RegisterForm{Username: "bob", Password: "secret1", Role: "Admin"},
		},
		{
			name: "article too short",
			form: ArticleForm{Title: "Go", Content: "short", CategoryID: ""},
			wantFields: map[string]string{
				"Title":      "Title must be at least 3 characters long",
				"Content":    "Content must be at least 10 characters long",
				"CategoryID": "Category is required",
			},
		},
		{
			name: "article bad image url",
			form: ArticleForm{Title: "Gophers", Content: "long enough body", CategoryID: "c1", ImageURL: "not a url"},
			wantFields: map[string]string{
				"ImageURL": "Image URL must be a valid URL",
			},
		},
		{
			name: "valid article",
			form: ArticleForm{Title: "Gophers", Content: "long enough body", CategoryID: "c1", ImageURL: "https://img.test/a.png"},
		},
		{
			name: "category too long",
			form: CategoryForm{Name: strings.Repeat("x", 101)},
			wantFields: map[string]string{
				"Name": "Category name must be at most 100 characters long",
			},
		},
		{
			name: "valid category",
			form: CategoryForm{Name: "Technology"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForm(tt.form)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var fe FieldErrors
			require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
			assert.Len(t, fe, len(tt.wantFields))
			for field, msg := range tt.wantFields {
				assert.Equal(t, msg, fe.For(field), "field %s", field)
			}
		})
	}
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{{Field: "A", Message: "a bad"}, {Field: "B", Message: "b bad"}}
	assert.Equal(t, "a bad; b bad", fe.Error())
	assert.Equal(t, "", fe.For("C"))
	assert.Equal(t, "no validation errors", FieldErrors{}.Error())
}

package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
)

// Config carries the HTTP-layer settings shared by the handlers.
type Config struct {
	MaxLimit      int
	UploadTempDir string
}

// Guards are the middleware routes are protected with. Nil guards pass through.
type Guards struct {
	Required fiber.Handler
	Optional fiber.Handler
	Throttle fiber.Handler
}

func passThrough(c *fiber.Ctx) error { return c.Next() }

func orPass(h fiber.Handler) fiber.Handler {
	if h == nil {
		return passThrough
	}
	return h
}

func (g Guards) required() fiber.Handler { return orPass(g.Required) }
func (g Guards) optional() fiber.Handler { return orPass(g.Optional) }
func (g Guards) throttle() fiber.Handler { return orPass(g.Throttle) }

// bind parses the request body into dst, trims its string fields and validates it.
func bind(c *fiber.Ctx, validate *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apierror.BadRequest("Invalid request body")
	}
	trimStrings(dst)
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apierror.BadRequest("Invalid request body")
		}
		details := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			details = append(details, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return apierror.Invalid("Validation failed", details)
	}
	return nil
}

// trimStrings trims every string and *string field of the struct dst points to.
func trimStrings(dst interface{}) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanSet() {
			continue
		}
		switch {
		case f.Kind() == reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case f.Kind() == reflect.Ptr && !f.IsNil() && f.Elem().Kind() == reflect.String:
			f.Elem().SetString(strings.TrimSpace(f.Elem().String()))
		}
	}
}

// paramID parses a uuid path parameter. Malformed ids are a 400.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apierror.BadRequest(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// listOptions reads page, limit, sortBy, sortType, query and userId from the query string.
// page and limit default to 1 and 10, must be positive and limit is capped at maxLimit.
func listOptions(c *fiber.Ctx, maxLimit int) (models.ListOptions, error) {
	opts := models.ListOptions{
		Page:     models.DefaultPage,
		Limit:    models.DefaultLimit,
		SortBy:   strings.TrimSpace(c.Query("sortBy")),
		SortType: strings.ToLower(strings.TrimSpace(c.Query("sortType"))),
		Query:    strings.TrimSpace(c.Query("query")),
	}

	var err error
	if opts.Page, err = positiveQuery(c, "page", models.DefaultPage); err != nil {
		return opts, err
	}
	if opts.Limit, err = positiveQuery(c, "limit", models.DefaultLimit); err != nil {
		return opts, err
	}
	if maxLimit > 0 && opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}

	if raw := strings.TrimSpace(c.Query("userId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return opts, apierror.BadRequest("Invalid userId")
		}
		opts.UserID = &id
	}
	return opts, nil
}

func positiveQuery(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apierror.BadRequest(fmt.Sprintf("%s must be a positive integer", key))
	}
	return n, nil
}

// uploads saves multipart files into the temp directory for the media delegate.
type uploads struct {
	dir   string
	paths []string
}

func newUploads(dir string) *uploads {
	if dir == "" {
		dir = os.TempDir()
	}
	return &uploads{dir: dir}
}

// save stores the file of field and returns its local path, or "" when the
// field is absent.
func (u *uploads) save(c *fiber.Ctx, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return "", nil
		}
		return "", apierror.BadRequest(fmt.Sprintf("Invalid %s upload", field))
	}
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", apierror.Internal(err)
	}

	path := filepath.Join(u.dir, uuid.NewString()+strings.ToLower(filepath.Ext(header.Filename)))
	if err := c.SaveFile(header, path); err != nil {
		return "", apierror.Internal(err)
	}
	u.paths = append(u.paths, path)
	return path, nil
}

// cleanup removes whatever the media delegate did not already consume.
func (u *uploads) cleanup() {
	for _, path := range u.paths {
		_ = os.Remove(path)
	}
}

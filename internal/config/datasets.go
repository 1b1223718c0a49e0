package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	apperrors "latetrack/internal/errors"
	"latetrack/pkg/contracts/domain"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	datasetsSchema = "datasets.schema.json"
	rosterSchema   = "roster.schema.json"
)

var schemaCache sync.Map // map[string]*jsonschema.Schema

// datasetList wraps the descriptor slice so validator can dive into it.
type datasetList struct {
	Datasets []domain.DatasetDescriptor `validate:"required,min=1,unique=ProjectName,dive"`
}

// LoadDatasets reads and validates the dataset descriptor list. tiers is the
// configured tier check order; every descriptor must give a threshold for
// each tier and for nothing else.
func LoadDatasets(path string, tiers []string) ([]domain.DatasetDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("dataset list %s", path))
		}
		return nil, apperrors.NewConfigError("failed to read dataset list", err)
	}
	return ParseDatasets(data, tiers)
}

// ParseDatasets validates raw descriptor JSON against the schema, decodes it,
// and checks the decoded descriptors.
func ParseDatasets(data []byte, tiers []string) ([]domain.DatasetDescriptor, error) {
	if err := validateSchema(datasetsSchema, data); err != nil {
		return nil, apperrors.NewConfigError("dataset list does not match schema", err)
	}

	var list datasetList
	if err := json.Unmarshal(data, &list.Datasets); err != nil {
		return nil, apperrors.NewParsingError("failed to decode dataset list", err)
	}

	if err := validateStruct(list); err != nil {
		return nil, apperrors.NewConfigError("invalid dataset list", err)
	}

	if err := checkTiers(list.Datasets, tiers); err != nil {
		return nil, apperrors.NewConfigError("tier thresholds do not match configured tiers", err)
	}

	return list.Datasets, nil
}

// LoadRoster reads and validates the roster descriptor.
func LoadRoster(path string) (*domain.RosterDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("roster descriptor %s", path))
		}
		return nil, apperrors.NewConfigError("failed to read roster descriptor", err)
	}
	return ParseRoster(data)
}

// ParseRoster validates and decodes a roster descriptor.
func ParseRoster(data []byte) (*domain.RosterDescriptor, error) {
	if err := validateSchema(rosterSchema, data); err != nil {
		return nil, apperrors.NewConfigError("roster descriptor does not match schema", err)
	}

	var roster domain.RosterDescriptor
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, apperrors.NewParsingError("failed to decode roster descriptor", err)
	}
	if err := validateStruct(roster); err != nil {
		return nil, apperrors.NewConfigError("invalid roster descriptor", err)
	}
	return &roster, nil
}

// TemplateDatasets returns a sample descriptor list for the given tiers,
// with thresholds rising along the check order.
func TemplateDatasets(tiers []string) []domain.DatasetDescriptor {
	list := TemplateDatasetsFor([]string{"project1.csv"}, tiers)
	list[0].ProjectName = "Project 1"
	return list
}

// TemplateDatasetsFor drafts one descriptor per table file, named after the
// file without its extension.
func TemplateDatasetsFor(fileNames []string, tiers []string) []domain.DatasetDescriptor {
	list := make([]domain.DatasetDescriptor, 0, len(fileNames))
	for _, name := range fileNames {
		thresholds := make(map[string]float64, len(tiers))
		for i, tier := range tiers {
			thresholds[tier] = float64(len(tiers)-i) * 10
		}
		list = append(list, domain.DatasetDescriptor{
			ProjectName:        strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
			FileName:           name,
			LateField:          "Late",
			SIDField:           "Student ID",
			OriginalScoreField: "Score",
			Thresholds:         thresholds,
		})
	}
	return list
}

func checkTiers(descriptors []domain.DatasetDescriptor, tiers []string) error {
	known := make(map[string]bool, len(tiers))
	for _, t := range tiers {
		known[t] = true
	}

	var problems []string
	for _, d := range descriptors {
		if _, err := d.Tiers(tiers); err != nil {
			problems = append(problems, err.Error())
		}
		var unknown []string
		for name := range d.Thresholds {
			if !known[name] {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			problems = append(problems, fmt.Sprintf("project %q has unknown tiers %v", d.ProjectName, unknown))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func validateSchema(name string, data []byte) error {
	schema, err := compiledSchema(name)
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return schema.Validate(instance)
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + name
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New()
		// Use JSON tag names in error messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		structValidator = v
	})
	return structValidator
}

// validateStruct runs tag validation and flattens the failures into one
// readable error.
func validateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatValidationError(fe))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "unique":
		return fmt.Sprintf("%s must not repeat %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

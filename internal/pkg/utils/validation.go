package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Accession identifiers follow the vendor's pattern: an alphanumeric block,
// optionally followed by dash-separated alphanumeric blocks (e.g. DM-121212,
// 1807190065-COtA2477).
var accessionRegex = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("accession", validateAccession)
	validate.RegisterValidation("vcf", validateVCF)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateAccession(fl validator.FieldLevel) bool {
	return accessionRegex.MatchString(fl.Field().String())
}

func validateVCF(fl validator.FieldLevel) bool {
	content := fl.Field().String()
	if content == "" {
		return false
	}
	return strings.HasPrefix(content, "##fileformat=VCF")
}

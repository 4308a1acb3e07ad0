package metric

// Tag constants
const (
	TagEnv                       = "env"
	TagService                   = "service"
	TagPath                      = "path"
	TagMethod                    = "method"
	TagHttpStatusCode            = "http_status_code"
	TagExternalService           = "external_service"
	TagExternalServiceMethod     = "external_service_method"
	TagExternalServiceStatusCode = "external_service_status_code"
	TagBucket                    = "bucket"
	TagOperation                 = "operation"
	TagStatus                    = "status"
	TagModelId                   = "model_id"
	TagPriceRange                = "price_range"

	TagValueSuccess = "success"
	TagValueFailure = "failure"
)

type Tag struct {
	Name  string
	Value string
}

func NewTag(name, value string) Tag {
	return Tag{
		Name:  name,
		Value: value,
	}
}

// BuildTag builds a tag from the given name and value
func BuildTag(tags ...Tag) []string {
	allTags := make([]string, 0)
	for _, tag := range tags {
		allTags = append(allTags, TagAsString(tag.Name, tag.Value))
	}
	return allTags
}

func TagAsString(name string, value string) string {
	return name + ":" + value
}

// StatusTag maps an error to the success/failure status tag
func StatusTag(err error) Tag {
	if err != nil {
		return NewTag(TagStatus, TagValueFailure)
	}
	return NewTag(TagStatus, TagValueSuccess)
}

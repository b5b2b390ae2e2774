package blog

import "errors"

// Error variables for blog operations.
var (
	ErrConfigFileNotFound  = errors.New("config file not found")
	ErrConfigFileRead      = errors.New("cannot read config file")
	ErrConfigInvalid       = errors.New("invalid config file")
	ErrSourceDirEmpty      = errors.New("source-dir cannot be empty")
	ErrOutputDirEmpty      = errors.New("output-dir cannot be empty")
	ErrHomepageEmpty       = errors.New("homepage cannot be empty")
	ErrBlogURLEmpty        = errors.New("blog_url cannot be empty")
	ErrUnknownTheme        = errors.New("unknown theme")
	ErrSourceDirUnreadable = errors.New("cannot read source directory")
	ErrHomepageNotFound    = errors.New("homepage not found")
	ErrNoPosts             = errors.New("no markdown posts found")
	ErrTitleRead           = errors.New("cannot read title")
	ErrPostNotFound        = errors.New("post not found")
	ErrNotMarkdown         = errors.New("not a markdown file")
	ErrBuildInProgress     = errors.New("another build is in progress")
)

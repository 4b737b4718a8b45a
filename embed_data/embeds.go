package embed_data

import (
	_ "embed"
)

//go:embed prompts/summarize_file.tmpl
var SummarizeFilePrompt []byte

//go:embed prompts/answer_with_index.tmpl
var AnswerWithIndexPrompt []byte

//go:embed prompts/answer_with_file.tmpl
var AnswerWithFilePrompt []byte

//go:embed prompts/answer_with_summary.tmpl
var AnswerWithSummaryPrompt []byte

//go:embed models_details.json
var ModelDetails []byte

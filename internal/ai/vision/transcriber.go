package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/openai/openai-go/v3/shared/constant"
)

const DefaultModel = "gpt-4o"

var ErrNoPages = errors.New("no pages provided")

// Transcriber reads rendered document pages back into plain text using a vision model.
// It backs scanned PDFs whose text layer is empty.
type Transcriber struct {
	client *openai.Client
	model  string
}

func NewTranscriber(apiKey, model string, opts ...option.RequestOption) *Transcriber {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	if model == "" {
		model = DefaultModel
	}
	return &Transcriber{
		client: &client,
		model:  model,
	}
}

type transcript struct {
	Pages []string `json:"pages"`
}

const systemPrompt = `You are an OCR engine. Transcribe the text of every page image exactly as written and return ONLY valid JSON.`

const userPrompt = `Transcribe each page image in order into this JSON structure:

{
  "pages": string[]
}

One entry per page. Keep the original wording, skip decorative elements. Return ONLY JSON.`

// TranscribePages returns the text of the given JPEG pages joined by newlines
func (t *Transcriber) TranscribePages(ctx context.Context, pages [][]byte) (string, error) {
	if len(pages) == 0 {
		return "", ErrNoPages
	}

	contentParts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Type: constant.Text("text"),
				Text: userPrompt,
			},
		},
	}

	for i, pageData := range pages {
		dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(pageData)

		contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				Type: constant.ImageURL("image_url"),
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL:    dataURL,
					Detail: "high",
				},
			},
		})

		if i < len(pages)-1 {
			contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{
					Type: constant.Text("text"),
					Text: fmt.Sprintf("--- Page %d ends, Page %d begins ---", i+1, i+2),
				},
			})
		}
	}

	completion, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: contentParts,
					},
				},
			},
		},
		Model: shared.ChatModel(t.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(6000),
	})
	if err != nil {
		return "", fmt.Errorf("openai vision api error: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	var out transcript
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &out); err != nil {
		return "", fmt.Errorf("failed to parse transcript JSON: %w", err)
	}

	kept := make([]string, 0, len(out.Pages))
	for _, p := range out.Pages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n"), nil
}

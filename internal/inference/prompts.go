package inference

import (
	"strings"
)

// maxPromptContent caps how much page or OCR text is sent per request; flyers
// and blog posts can pull in tens of thousands of characters of noise.
const maxPromptContent = 10000

// EventPrompt builds the page-analysis prompt. The response shape is carried
// by the schema, so the prompt only frames the task and the content.
func EventPrompt(pageContent string) string {
	var sb strings.Builder

	sb.WriteString("다음 웹페이지 내용에서 행사(팝업스토어/전시/이벤트) 정보를 추출해 주세요.\n")
	sb.WriteString("날짜는 YYYY-MM-DD 형식으로, 가격은 원문 표기 그대로 적어 주세요.\n\n")
	sb.WriteString("웹페이지 내용:\n")
	sb.WriteString(truncate(pageContent, maxPromptContent))

	return sb.String()
}

// GoodsPrompt builds the flyer-image prompt. Recognized OCR text rides along
// with the attached images so the model can cross-check blurry regions.
func GoodsPrompt(ocrTexts []string) string {
	var sb strings.Builder

	sb.WriteString("첨부된 행사 안내 이미지에서 굿즈 목록(상품명, 가격)과 특전 정보를 추출해 주세요.\n")
	sb.WriteString("가격 표기는 이미지의 원문 그대로 유지해 주세요.\n")

	combined := strings.TrimSpace(strings.Join(ocrTexts, "\n"))
	if combined != "" {
		sb.WriteString("\n이미지에서 인식된 텍스트 (참고용):\n")
		sb.WriteString(truncate(combined, maxPromptContent))
	}

	return sb.String()
}

// PastEventsPrompt builds the search-augmented prompt for similar past events.
// Live search cannot be combined with a response schema, so the expected JSON
// shape is spelled out in the prompt and recovery re-extracts it.
func PastEventsPrompt(eventTitle string) string {
	var sb strings.Builder

	sb.WriteString("\"")
	sb.WriteString(eventTitle)
	sb.WriteString("\"와 비슷한 과거 행사를 검색해서 방문자 후기를 정리해 주세요.\n\n")
	sb.WriteString(`다음 JSON 형식으로만 답변해 주세요:
{
  "past_events_list": [{"title": "행사명", "link": "URL"}],
  "feedback": {
    "goods": [{"title": "항목", "description": "굿즈 관련 후기"}],
    "contents": {
      "positive": [{"title": "항목", "description": "긍정 후기"}],
      "negative": [{"title": "항목", "description": "부정 후기"}]
    }
  }
}

JSON 외의 설명 문장은 넣지 마세요.`)

	return sb.String()
}

// truncate cuts s at limit bytes on a rune boundary
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := s[:limit]

	// Back off to a rune boundary so multibyte text is not split mid-rune.
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}

	return cut
}

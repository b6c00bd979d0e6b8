package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"example.com/ai-business-plan/backend/internal/plan"
)

const systemPrompt = "You are an experienced business plan writer. Respond with a single JSON object only, without code fences or extra text."

func buildGeneratePlanPrompt(req plan.Request, now time.Time) (string, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", err
	}

	skeleton, err := json.MarshalIndent(plan.Normalize(nil, plan.Request{}, now), "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Write a complete business plan as JSON.

Requirements:
- Output JSON only, no code fences, no extra text.
- Use exactly the structure below; keep every key, fill every string, use arrays where shown.
- product1..product10: describe each product from the input in 2-4 sentences; leave unused slots as "".
- financialPlan.usageOfFunds: allocationPercent is a number and all rows must total exactly 100.
- Amounts are plain numbers with thousands separators and no currency symbol.
- Narrative sections are plain prose; light markdown (bold, hyphen bullets) only in overviews and strategies.
- Do not invent funding figures that contradict the input.

Structure:
%s

Input:
%s`, string(skeleton), string(payload))

	return prompt, nil
}

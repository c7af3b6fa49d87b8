package llm

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// stubClient is the offline provider: deterministic output, no network. It
// exists so the serve and analyze paths can be exercised end to end without
// credentials.
type stubClient struct{}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf(
		"## 注目点\n- スタブ応答です（プロンプト %d 文字を受信）\n"+
			"## 仮説（控えめ）\n- なし\n"+
			"## 追加で確認したいこと\n- 実プロバイダを設定してください\n"+
			"## 前提・限界\n- この応答は固定テンプレートです\n",
		utf8.RuneCountInString(prompt),
	), nil
}

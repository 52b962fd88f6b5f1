package command

// Messages holds the user-facing texts of the rolepost command.
type Messages struct {
	Activated       string
	Deactivated     string
	NotEligible     string
	ChoosePrompt    string
	ChoosePlacehold string
	Unauthorized    string
	InvalidChoice   string
	Failed          string
}

// DefaultMessages returns the built-in texts. Activated takes the persona label.
func DefaultMessages() Messages {
	return Messages{
		Activated:       "役職発言モードを **ON** にしました。（%s）",
		Deactivated:     "役職発言モードを **OFF** にしました。",
		NotEligible:     "役職ロールを保有していません。",
		ChoosePrompt:    "どのモードで発言モードを有効にしますか？",
		ChoosePlacehold: "モードを選択してください",
		Unauthorized:    "あなた以外は操作できません。",
		InvalidChoice:   "選択されたモードは利用できません。",
		Failed:          "⚠️ コマンド実行中にエラーが発生しました。",
	}
}

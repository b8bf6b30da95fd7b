package php_test

import (
	"strings"
	"testing"

	"mibk.dev/phtmlfmt/php"
)

func TestFormatEcho(t *testing.T) {
	long := strings.Repeat("x", 80)
	a := strings.Repeat("a", 60)
	c := strings.Repeat("c", 60)
	tests := []struct {
		name string
		expr string
		pad  string
		want string
	}{{
		"short",
		"$x", "    ",
		"    <?= $x ?>\n",
	}, {
		"spacing",
		"Html::encode( $model->name )", "",
		"<?= Html::encode($model->name) ?>\n",
	}, {
		"joined lines",
		"$model\n    ->getUser()\n    ->name", "",
		"<?= $model->getUser()->name ?>\n",
	}, {
		"chain",
		"$form->field($model, 'a')->textInput(['maxlength' => true])->label('" + long + "')", "",
		"<?= $form->field($model, 'a')\n" +
			"    ->textInput(['maxlength' => true])\n" +
			"    ->label('" + long + "') ?>\n",
	}, {
		"ternary",
		"$cond ? '" + a + "' : '" + c + "'", "",
		"<?= $cond\n" +
			"    ? '" + a + "'\n" +
			"    : '" + c + "' ?>\n",
	}, {
		"concatenation",
		"'" + a + "' . $b . '" + c + "'", "  ",
		"  <?= '" + a + "'\n" +
			"      . $b\n" +
			"      . '" + c + "' ?>\n",
	}, {
		"trailing array argument",
		"Html::a($label, ['view', 'id' => $model->id, 'extra' => '" + long + "'])", "",
		"<?= Html::a($label, [\n" +
			"    'view',\n" +
			"    'id' => $model->id,\n" +
			"    'extra' => '" + long + "',\n" +
			"]) ?>\n",
	}, {
		"trailing array keeps fitting sub-arrays inline",
		"Html::a($label, ['view', 'options' => ['class' => 'btn'], ['data-id', 1], 'extra' => '" + long + "'])", "",
		"<?= Html::a($label, [\n" +
			"    'view',\n" +
			"    'options' => ['class' => 'btn'],\n" +
			"    ['data-id', 1],\n" +
			"    'extra' => '" + long + "',\n" +
			"]) ?>\n",
	}, {
		"arguments",
		"Html::a('" + a + "', '" + c + "')", "",
		"<?= Html::a(\n" +
			"    '" + a + "',\n" +
			"    '" + c + "',\n" +
			") ?>\n",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := php.FormatEcho(tt.expr, tt.pad); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestIsSingleEcho(t *testing.T) {
	for code, want := range map[string]bool{
		"echo $x;":           true,
		" echo Html::a($x) ": true,
		"echo $a; echo $b;":  false,
		"echo $a;\necho $b;": false,
		"print $x;":          false,
	} {
		if got := php.IsSingleEcho(code); got != want {
			t.Errorf("IsSingleEcho(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestContainsBreak(t *testing.T) {
	if !php.ContainsBreak("echo 1; BREAK;") {
		t.Error("ContainsBreak: want true")
	}
	if php.ContainsBreak("echo 'break;';") {
		t.Error("ContainsBreak: want false")
	}
}

// Package dsl 提供基于 CEL (Common Expression Language) 的 Label/属性
// 表达式解释器，用于策略驱动的过滤与重排。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("dsl: cel env not initialized")
	}
	return celEnv, err
}

// Program 是编译后的表达式，可以对任意 (item, rctx) 重复求值。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "hot"
//   - 数值：item.score > 0.7 / item.meta.price <= 500.0
//   - 逻辑：item.meta.category == "Fashion" && item.score > 0.5
//   - 包含：label.recall_source.contains("latent")
//
// 注意：has(label.key) 可以用 label.key != null 替代。
type Program struct {
	prg cel.Program
}

// Compile 编译 DSL 表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	return &Program{prg: prg}, nil
}

// Eval 对一个 (item, rctx) 求值，返回布尔结果。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错；
		// 应使用 label.key != null 做存在性检查
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
			// label.recall_source 直接返回 value
			labelAccessor[k] = v.Value
		}
	}

	itemInput := map[string]interface{}{}
	if item != nil {
		itemInput = map[string]interface{}{
			"id":       item.ID,
			"score":    item.Score,
			"features": item.Features,
			"meta":     item.Meta,
			"labels":   labels,
		}
	}

	rctxInput := map[string]interface{}{}
	if rctx != nil {
		rctxInput = map[string]interface{}{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"params":  rctx.Params,
		}
	}

	return map[string]interface{}{
		"item":  itemInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}

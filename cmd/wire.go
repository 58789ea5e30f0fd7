package cmd

import (
	"fmt"

	"github.com/zhitui/zhitui/internal/algebra"
	"github.com/zhitui/zhitui/internal/bkt"
	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/judge"
	"github.com/zhitui/zhitui/internal/selector"
	"github.com/zhitui/zhitui/internal/session"
	"github.com/zhitui/zhitui/internal/store"
)

// newController assembles the grading pipeline over a store and a
// catalog. Tunables come from the ZHITUI_* environment (mastery params,
// judge, selector); a malformed or out-of-range value fails here,
// before any session starts.
func newController(cat *catalog.Catalog, st *store.Store) (*session.Controller, error) {
	params, err := bkt.ParamsFromEnv()
	if err != nil {
		return nil, fmt.Errorf("mastery params: %w", err)
	}
	paramSet, err := bkt.NewParamSet(params, nil)
	if err != nil {
		return nil, fmt.Errorf("mastery params: %w", err)
	}

	judgeCfg, err := judge.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("judge config: %w", err)
	}
	if err := judgeCfg.Validate(); err != nil {
		return nil, fmt.Errorf("judge config: %w", err)
	}

	selCfg, err := selector.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("selector config: %w", err)
	}
	if err := selCfg.Validate(); err != nil {
		return nil, fmt.Errorf("selector config: %w", err)
	}

	grader := judge.New(algebra.NewSimplifier(algebra.DefaultConfig()), judgeCfg)
	return session.New(session.Deps{
		Problems: cat,
		Grader:   grader,
		Storage:  st,
		Mastery:  st.MasteryRepo(),
		Recents:  st.AttemptRepo(),
		Picker:   selector.New(selCfg),
	}, session.Config{Params: paramSet, Window: selCfg.Window})
}

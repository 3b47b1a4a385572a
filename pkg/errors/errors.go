// Package errors はsciforest全体のエラーハンドリングと警告システムを提供します。
// アンサンブル学習で発生するエラーを、設定エラー・木構築エラー・並行処理エラーの3分類で構造化します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("sciforest-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	アンサンブル学習のエラー分類
//
// ===========================================================================

// InvalidConfigurationError はハイパーパラメータが制約を満たさない場合のエラーです。
// 学習器の構築時に即座に返され、学習の途中で発生することはありません。
type InvalidConfigurationError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("sciforest: invalid configuration for '%s': %s (got: %v)", e.Param, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "InvalidConfigurationError")
}

// NewInvalidConfigurationError は新しいInvalidConfigurationErrorを作成し、スタックトレースを付与します。
func NewInvalidConfigurationError(param, reason string, value interface{}) error {
	err := &InvalidConfigurationError{Param: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// InvalidTreeConstraintError は単一の決定木が与えられた制約の下で構築できない場合のエラーです。
// 例えば空のインデックス集合や、特徴量数を超える分割候補数など。
type InvalidTreeConstraintError struct {
	Constraint string
	Reason     string
}

func (e *InvalidTreeConstraintError) Error() string {
	return fmt.Sprintf("sciforest: tree constraint '%s' violated: %s", e.Constraint, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidTreeConstraintError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("constraint", e.Constraint).
		Str("reason", e.Reason).
		Str("type", "InvalidTreeConstraintError")
}

// NewInvalidTreeConstraintError は新しいInvalidTreeConstraintErrorを作成し、スタックトレースを付与します。
func NewInvalidTreeConstraintError(constraint, reason string) error {
	err := &InvalidTreeConstraintError{Constraint: constraint, Reason: reason}
	return errors.WithStack(err)
}

// ConcurrencyFailureError はワーカーが異常終了した場合のエラーです。
// アンサンブル全体が失敗扱いとなり、部分的なモデルは返されません。
type ConcurrencyFailureError struct {
	Op  string
	Err error
}

func (e *ConcurrencyFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sciforest: %s: worker terminated abnormally: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sciforest: %s: worker terminated abnormally", e.Op)
}

func (e *ConcurrencyFailureError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConcurrencyFailureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "ConcurrencyFailureError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewConcurrencyFailureError は新しいConcurrencyFailureErrorを作成し、スタックトレースを付与します。
func NewConcurrencyFailureError(op string, err error) error {
	cfErr := &ConcurrencyFailureError{Op: op, Err: err}
	return errors.WithStack(cfErr)
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("sciforest: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("sciforest: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力データの検証に失敗した場合のエラーです。
// ハイパーパラメータではなく、学習・予測時に渡されたデータの不正を示します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sciforest: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("sciforest: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)

// Package varres 解析并替换字符串中的变量引用。
//
// 引用在有序的来源链（[Source]）上查询，先找到者生效；
// 变量名、默认值以及查到的值都会递归解析。
//
// # 语法
//
//	$name            裸引用，name 为字母、数字、"_"、"."、"-" 的最长序列
//	${name}          括号引用，name 可包含任意字符及嵌套引用
//	${name:default}  以第一个顶层 ":" 分隔默认值
//	$$ 或 ${$}       字面量 "$"
//
// 不完整或无法识别的 "$" 按普通文本保留，不会报错。
//
// # 分层
//
//  1. [Scanner] - 词法层，只切分引用，不做解析
//  2. [Resolver] - 递归解析名称、默认值与值，并检测循环替换
//
// # 错误
//
//   - [MissingVariableError] - 变量不存在且没有默认值
//   - [CircularError] - 循环替换，如 "a <- b* <- c <- b"
//   - [SourceError] - 来源查询失败，原始错误可通过 errors.Is 匹配
//
// 失败时不返回部分结果。是否回退到原文由调用方决定。
//
// # 快速开始
//
//	r := varres.MustNew(varres.MapSource{"host": "localhost", "url": "http://$host:8080"})
//	s, err := r.Resolve("endpoint=${url}/api")
//	// endpoint=http://localhost:8080/api
//
// # 并发
//
// Resolver 创建后只读，每次调用各自维护解析轨迹，可被多个 goroutine 同时使用。
// 来源内部状态（如定期重载的文件）的同步由来源自身负责。
package varres

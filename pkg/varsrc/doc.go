// Package varsrc 提供 varres 的常用来源实现。
//
//   - [Literal] / [Literals] - 列表字面量，如 "host:localhost,port:8080"
//   - [Env] - 环境变量，可选前缀与 key 规范化
//   - [Hostname] - 本机主机名
//   - [File] - YAML/JSON 文件，支持模板创建、轮询检查与 fsnotify 监听
//
// 组合示例（靠前的来源优先）：
//
//	r, err := varres.New(
//	    varsrc.Literal(flagValue),
//	    varsrc.NewFile("${HOME}/.myapp/vars.yaml", varsrc.Optional()),
//	    varsrc.Env{},
//	    varsrc.Hostname{},
//	)
//
// 文件路径中的 ${HOME} 由排在文件之后的 [Env] 解析。
package varsrc

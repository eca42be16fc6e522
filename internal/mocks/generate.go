package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/event --output domain/event --outpkg eventmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/match --output domain/match --outpkg matchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Publisher --dir ../domain/notify --output domain/notify --outpkg notifymock --filename publisher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/storage --output domain/storage --outpkg storagemock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Tx --dir ../domain/storage --output domain/storage --outpkg storagemock --filename tx_mock.go

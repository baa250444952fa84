package pdf

// Money expone el formateador de montos para los tests.
var Money = money

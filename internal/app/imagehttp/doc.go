// Package imagehttp реализует HTTP-интерфейс сервера изображений поверх локального каталога.
// Эндпоинты:
//   - GET|HEAD /image/{name} — отдаёт файл; без расширения перебирает png, jpg, jpeg, gif, webp, svg, json.
//     Ответ всегда с Cache-Control: public, max-age=86400 и корректным Content-Type.
//   - GET|HEAD / — информационная HTML-страница с путём к каталогу.
//   - GET /health — количество файлов и суммарный объём каталога.
//
// Все ответы несут Access-Control-Allow-Origin: *.
package imagehttp
